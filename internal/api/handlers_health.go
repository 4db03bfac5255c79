// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/tomtom215/storelens/internal/metrics"
)

const healthCheckTimeout = 3 * time.Second

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Status     string          `json:"status"`
	Version    string          `json:"version"`
	Uptime     float64         `json:"uptime_seconds"`
	Components map[string]bool `json:"components"`
}

// Health handles GET /api/v1/health. The service is "degraded" when any
// registered dependency fails its ping; the status code stays 200.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	uptime := time.Since(h.startTime).Seconds()
	metrics.AppUptime.Set(uptime)

	status := HealthStatus{
		Status:     "healthy",
		Version:    h.version,
		Uptime:     uptime,
		Components: make(map[string]bool, len(names)),
	}
	for _, name := range names {
		ok := h.checks[name].Ping(ctx) == nil
		status.Components[name] = ok
		if !ok {
			status.Status = "degraded"
		}
	}
	respondOK(w, r, status)
}

// HealthLive handles GET /api/v1/health/live.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondOK(w, r, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

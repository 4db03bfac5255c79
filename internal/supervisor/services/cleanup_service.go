// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package services

import (
	"context"
	"time"

	"github.com/tomtom215/storelens/internal/logging"
)

// Cleaner removes expired records and reports how many went. Satisfied by
// *auth.Service (sessions) and *audit.Logger (retention).
type Cleaner interface {
	CleanupExpired(ctx context.Context) (int, error)
}

// CleanupService sweeps a Cleaner on an interval. Failed sweeps are logged
// and retried on the next tick.
type CleanupService struct {
	name     string
	cleaner  Cleaner
	interval time.Duration
}

// NewCleanupService creates a sweeper named name. A non-positive interval
// means 15 minutes.
func NewCleanupService(name string, cleaner Cleaner, interval time.Duration) *CleanupService {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &CleanupService{name: name, cleaner: cleaner, interval: interval}
}

// NewSessionCleanupService sweeps expired sessions.
func NewSessionCleanupService(cleaner Cleaner, interval time.Duration) *CleanupService {
	return NewCleanupService("session-cleanup", cleaner, interval)
}

// Serve implements suture.Service.
func (s *CleanupService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			n, err := s.cleaner.CleanupExpired(ctx)
			if err != nil {
				logging.Warn().Err(err).Str("service", s.name).Msg("Cleanup sweep failed")
				continue
			}
			if n > 0 {
				logging.Debug().Int("removed", n).Str("service", s.name).Msg("Expired records removed")
			}
		}
	}
}

func (s *CleanupService) String() string {
	return s.name
}

// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package middleware

import (
	"net/http"
	"time"

	"github.com/tomtom215/storelens/internal/logging"
)

// slowRequestThreshold promotes access log lines to warn level.
const slowRequestThreshold = 10 * time.Second

// AccessLog writes one structured line per request with the request and
// correlation IDs from the context. Run it after RequestID.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		logger := logging.Ctx(r.Context())
		event := logger.Debug()
		switch {
		case ww.statusCode >= http.StatusInternalServerError:
			event = logger.Error()
		case duration >= slowRequestThreshold:
			event = logger.Warn()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.statusCode).
			Dur("duration", duration).
			Str("remote_addr", r.RemoteAddr).
			Msg("Request completed")
	})
}

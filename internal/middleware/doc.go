// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

/*
Package middleware provides the infrastructure HTTP middleware shared by the
API router: request IDs, access logging, Prometheus instrumentation and gzip.

All middleware uses the chi signature func(http.Handler) http.Handler. The
router installs them in this order:

	r.Use(middleware.RequestID)         // X-Request-ID plus logging context
	r.Use(middleware.AccessLog)         // one structured line per request
	r.Use(middleware.PrometheusMetrics) // labelled by chi route pattern
	r.Use(middleware.Compression)       // JSON responses only

Authentication, authorization and rate limiting live next to the API
(internal/auth, internal/authz, internal/api).
*/
package middleware

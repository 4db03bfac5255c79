// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

/*
Package metrics defines the Prometheus instruments exported at /metrics.

All collectors are registered on the default registry through promauto.

API:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Analytics:
  - analytics_requests_total{status_code}
  - analytics_request_duration_seconds
  - analytics_retries_total{status_code}
  - report_fetches_total{report,result}
  - report_cache_hits_total{operation}, report_cache_misses_total{operation}

Chat completion:
  - llm_attempts_total{model,result}
  - llm_completion_duration_seconds
  - llm_candidates_exhausted_total
  - llm_discovery_errors_total

Circuit breaker (labelled by breaker name):
  - circuit_breaker_state (0=closed, 1=half-open, 2=open)
  - circuit_breaker_requests_total{name,result}
  - circuit_breaker_consecutive_failures
  - circuit_breaker_state_transitions_total{name,from_state,to_state}

Auth, storage and export:
  - auth_login_attempts_total{result}, auth_active_sessions
  - authz_decisions_total{role,object,action,decision}
  - duckdb_query_duration_seconds{operation,table}, duckdb_query_errors_total
  - exports_total{format}

Endpoint labels use the chi route pattern, never the raw path, so label
cardinality stays bounded.
*/
package metrics

// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package models

import (
	"time"
)

// APIResponse is the envelope returned by every JSON endpoint.
//
// Example successful response:
//
//	{
//	  "success": true,
//	  "data": {"kpis": {...}},
//	  "meta": {"timestamp": "2026-01-08T12:00:00Z", "request_id": "...", "query_time_ms": 180}
//	}
//
// Example error response:
//
//	{
//	  "success": false,
//	  "error": {"code": "EXTERNAL_SERVICE_FAILED", "message": "analytics backend unavailable"},
//	  "meta": {"timestamp": "2026-01-08T12:00:00Z"}
//	}
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    Metadata    `json:"meta"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"request_id,omitempty"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Period      string    `json:"period,omitempty"`
	Customer    string    `json:"customer,omitempty"`
}

// APIError carries a machine-readable code and a human-readable message.
//
// Common codes: BAD_REQUEST, UNAUTHORIZED, FORBIDDEN, NOT_FOUND, CONFLICT,
// VALIDATION_FAILED, DATABASE_ERROR, EXTERNAL_SERVICE_FAILED, INTERNAL_ERROR.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

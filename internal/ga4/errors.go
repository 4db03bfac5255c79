// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package ga4

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"google.golang.org/api/googleapi"
)

// ErrCircuitOpen is returned while the breaker rejects calls.
var ErrCircuitOpen = errors.New("analytics API circuit breaker is open")

// APIError is a non-2xx response from the Data API.
type APIError struct {
	StatusCode int
	Status     string // Google RPC status, e.g. PERMISSION_DENIED
	Message    string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("analytics API error %d %s: %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("analytics API error %d: %s", e.StatusCode, e.Message)
}

// Temporary reports server-side or throttling failures worth retrying later.
func (e *APIError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// errorEnvelope recovers the RPC status, which googleapi.Error leaves in Body.
type errorEnvelope struct {
	Error struct {
		Status string `json:"status"`
	} `json:"error"`
}

// apiErrorFrom maps a googleapi.Error. Non-JSON bodies become the message.
func apiErrorFrom(gerr *googleapi.Error) *APIError {
	apiErr := &APIError{StatusCode: gerr.Code, Message: gerr.Message}

	var env errorEnvelope
	if json.Unmarshal([]byte(gerr.Body), &env) == nil {
		apiErr.Status = env.Error.Status
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(gerr.Body)
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(gerr.Code)
	}
	return apiErr
}

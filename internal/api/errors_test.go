// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomtom215/storelens/internal/auth"
	"github.com/tomtom215/storelens/internal/database"
	"github.com/tomtom215/storelens/internal/export"
	"github.com/tomtom215/storelens/internal/ga4"
	"github.com/tomtom215/storelens/internal/llm"
	"github.com/tomtom215/storelens/internal/period"
)

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"llm exhausted", &llm.ExhaustedError{Err: fmt.Errorf("model x: %w", &llm.ProviderError{StatusCode: 503, Message: "overloaded"})}, http.StatusBadGateway, ErrCodeExternalServiceFail},
		{"no models", llm.ErrNoModels, http.StatusBadGateway, ErrCodeExternalServiceFail},
		{"circuit open", fmt.Errorf("run report: %w", ga4.ErrCircuitOpen), http.StatusBadGateway, ErrCodeExternalServiceFail},
		{"analytics api", &ga4.APIError{StatusCode: 403, Status: "PERMISSION_DENIED", Message: "no access"}, http.StatusBadGateway, ErrCodeExternalServiceFail},
		{"invalid range", fmt.Errorf("%w: bad", period.ErrInvalidRange), http.StatusBadRequest, ErrCodeValidationFailed},
		{"unknown format", export.ErrUnknownFormat, http.StatusBadRequest, ErrCodeValidationFailed},
		{"forbidden scope", auth.ErrForbiddenScope, http.StatusForbidden, ErrCodeForbidden},
		{"no customer", auth.ErrNoCustomer, http.StatusForbidden, ErrCodeForbidden},
		{"user exists", database.ErrUserExists, http.StatusConflict, ErrCodeConflict},
		{"user not found", database.ErrUserNotFound, http.StatusNotFound, ErrCodeNotFound},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, ErrCodeExternalServiceFail},
		{"other", errBoom, http.StatusInternalServerError, ErrCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondServiceError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
			assertError(t, rec, tt.status, tt.code)
		})
	}
}

func TestRespondServiceErrorProviderMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	err := &llm.ExhaustedError{Err: fmt.Errorf("model x: %w", &llm.ProviderError{StatusCode: 503, Message: "overloaded"})}
	respondServiceError(rec, httptest.NewRequest(http.MethodPost, "/", nil), err)

	env := decodeEnvelope(t, rec)
	if env.Error.Message != "overloaded" {
		t.Errorf("message = %q, want provider message", env.Error.Message)
	}
}

func TestRespondServiceErrorCanceled(t *testing.T) {
	rec := httptest.NewRecorder()
	respondServiceError(rec, httptest.NewRequest(http.MethodGet, "/", nil), fmt.Errorf("run report: %w", context.Canceled))
	if rec.Code != statusClientClosedRequest {
		t.Errorf("status = %d, want %d", rec.Code, statusClientClosedRequest)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("canceled request got a body: %q", rec.Body.String())
	}
}

func TestSanitizeLogValue(t *testing.T) {
	if got := sanitizeLogValue("a\nb\x7f"); got != `a\x0ab\x7f` {
		t.Errorf("sanitizeLogValue() = %q", got)
	}
}

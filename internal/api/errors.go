// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/storelens/internal/auth"
	"github.com/tomtom215/storelens/internal/database"
	"github.com/tomtom215/storelens/internal/export"
	"github.com/tomtom215/storelens/internal/ga4"
	"github.com/tomtom215/storelens/internal/llm"
	"github.com/tomtom215/storelens/internal/logging"
	"github.com/tomtom215/storelens/internal/models"
	"github.com/tomtom215/storelens/internal/period"
)

// statusClientClosedRequest is the nginx convention for a client that went
// away before the response was written. Nothing reads the body, so none is sent.
const statusClientClosedRequest = 499

// respondServiceError maps a domain error to its status and envelope.
// Upstream details are kept in the log; the client sees a stable message.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		exhausted *llm.ExhaustedError
		gaErr     *ga4.APIError
	)

	switch {
	case errors.As(err, &exhausted):
		logging.Ctx(r.Context()).Error().Err(err).Int("candidates", len(exhausted.Failures)).Msg("Chat completion failed")
		respondAPIError(w, r, http.StatusBadGateway, &models.APIError{
			Code:    ErrCodeExternalServiceFail,
			Message: lastProviderMessage(exhausted),
			Details: map[string]interface{}{"failures": exhausted.Failures},
		})

	case errors.Is(err, llm.ErrNoModels):
		respondError(w, r, http.StatusBadGateway, ErrCodeExternalServiceFail, "no chat model is available", err)

	case errors.Is(err, ga4.ErrCircuitOpen):
		respondError(w, r, http.StatusBadGateway, ErrCodeExternalServiceFail, "analytics backend temporarily unavailable", err)

	case errors.As(err, &gaErr):
		logging.Ctx(r.Context()).Error().Err(err).Int("upstream_status", gaErr.StatusCode).Msg("Analytics query failed")
		respondAPIError(w, r, http.StatusBadGateway, &models.APIError{
			Code:    ErrCodeExternalServiceFail,
			Message: "analytics query failed",
			Details: map[string]interface{}{"upstream_status": gaErr.StatusCode, "status": gaErr.Status},
		})

	case errors.Is(err, period.ErrInvalidRange):
		respondAPIError(w, r, http.StatusBadRequest, &models.APIError{Code: ErrCodeValidationFailed, Message: err.Error()})

	case errors.Is(err, export.ErrUnknownFormat):
		respondAPIError(w, r, http.StatusBadRequest, &models.APIError{Code: ErrCodeValidationFailed, Message: err.Error()})

	case errors.Is(err, auth.ErrForbiddenScope), errors.Is(err, auth.ErrNoCustomer):
		respondError(w, r, http.StatusForbidden, ErrCodeForbidden, err.Error(), nil)

	case errors.Is(err, database.ErrUserExists):
		respondError(w, r, http.StatusConflict, ErrCodeConflict, "username already exists", nil)

	case errors.Is(err, database.ErrUserNotFound):
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "user not found", nil)

	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, r, http.StatusGatewayTimeout, ErrCodeExternalServiceFail, "upstream request timed out", err)

	case errors.Is(err, context.Canceled):
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Request canceled by client")
		w.WriteHeader(statusClientClosedRequest)

	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "internal server error", err)
	}
}

// lastProviderMessage prefers the provider's own message over the wrapped
// error text.
func lastProviderMessage(e *llm.ExhaustedError) string {
	var perr *llm.ProviderError
	if errors.As(e.Err, &perr) && perr.Message != "" {
		return perr.Message
	}
	if len(e.Failures) > 0 && e.Failures[len(e.Failures)-1].Err != nil {
		return e.Failures[len(e.Failures)-1].Err.Error()
	}
	return e.Error()
}

// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

// Package validation validates decoded API requests with
// go-playground/validator v10.
//
// Field names in messages are the JSON names of the request, so a failure
// reads "start must be a date in YYYY-MM-DD format" rather than naming the Go
// field. Failures convert to a models.APIError with code VALIDATION_FAILED:
//
//	type loginRequest struct {
//	    Username string `json:"username" validate:"required,max=64"`
//	    Password string `json:"password" validate:"required,max=256"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    respondAPIError(w, r, http.StatusBadRequest, verr.ToAPIError())
//	    return
//	}
//
// Values of fields whose name contains "password" are left out of error
// details.
package validation

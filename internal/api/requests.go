// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package api

import (
	"net/http"
	"strings"
)

// reportParams selects the period and customer of a report. Explicit dates
// without a preset mean a custom range.
type reportParams struct {
	Preset   string `json:"preset" validate:"omitempty,preset"`
	Start    string `json:"start" validate:"required_with=End,isodate"`
	End      string `json:"end" validate:"required_with=Start,isodate"`
	Customer string `json:"customer" validate:"max=128"`
}

func reportParamsFromQuery(r *http.Request) reportParams {
	q := r.URL.Query()
	return reportParams{
		Preset:   strings.TrimSpace(q.Get("preset")),
		Start:    strings.TrimSpace(q.Get("start")),
		End:      strings.TrimSpace(q.Get("end")),
		Customer: strings.TrimSpace(q.Get("customer")),
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=256"`
}

// Diagnostic views.
const (
	diagnosticSummary = "summary"
	diagnosticFull    = "full"
)

type diagnosticRequest struct {
	Preset   string `json:"preset" validate:"omitempty,preset"`
	Start    string `json:"start" validate:"required_with=End,isodate"`
	End      string `json:"end" validate:"required_with=Start,isodate"`
	Customer string `json:"customer" validate:"max=128"`
	View     string `json:"view" validate:"omitempty,oneof=summary full"`
	Question string `json:"question" validate:"max=2000"`
}

func (d diagnosticRequest) params() reportParams {
	return reportParams{Preset: d.Preset, Start: d.Start, End: d.End, Customer: d.Customer}
}

type exportRequest struct {
	Text     string `json:"text" validate:"required,max=500000"`
	Format   string `json:"format" validate:"required,oneof=txt docx pdf"`
	Filename string `json:"filename" validate:"max=128"`
}

type createUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64,username"`
	Password string `json:"password" validate:"required,min=8,max=256"`
	Role     string `json:"role" validate:"required,role"`
	Customer string `json:"customer" validate:"required_if=Role comum,max=128"`
}

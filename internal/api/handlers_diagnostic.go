// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/storelens/internal/audit"
	"github.com/tomtom215/storelens/internal/auth"
	"github.com/tomtom215/storelens/internal/diagnostic"
	"github.com/tomtom215/storelens/internal/export"
	"github.com/tomtom215/storelens/internal/llm"
	"github.com/tomtom215/storelens/internal/logging"
	"github.com/tomtom215/storelens/internal/validation"
)

type diagnosticResponse struct {
	Text     string        `json:"text"`
	Model    string        `json:"model"`
	Failures []llm.Failure `json:"failures,omitempty"`
	Period   string        `json:"period"`
	Customer string        `json:"customer"`
}

// Diagnostic handles POST /api/v1/diagnostic. The summary view prompts from
// KPIs and highlights only; the full view adds funnel, device, city and
// product context.
func (h *Handler) Diagnostic(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req diagnosticRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body", nil)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondAPIError(w, r, http.StatusBadRequest, verr.ToAPIError())
		return
	}
	q, ok := h.resolveQuery(w, r, req.params())
	if !ok {
		return
	}
	label := h.cfg.CustomerName(q.Customer)

	var prompt string
	if req.View == diagnosticSummary {
		summary, err := h.dashboard.Summary(r.Context(), q)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		prompt = diagnostic.BuildPrompt(diagnostic.Data{KPIs: summary.KPIs, Highlights: summary.Highlights}, label, q.Range)
	} else {
		data, err := h.dashboard.Collect(r.Context(), q)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		prompt = diagnostic.BuildDiagnostic(*data, label, q.Range)
	}
	if question := strings.TrimSpace(req.Question); question != "" {
		prompt = diagnostic.WithQuestion(prompt, question)
	}

	completion, err := h.llm.Complete(r.Context(), prompt)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("model", completion.Model).
		Int("failed_candidates", len(completion.Failures)).
		Str("period", q.Range.String()).
		Msg("Diagnostic generated")
	h.audit.LogDiagnostic(r.Context(), actorFor(auth.SessionFromContext(r.Context())), audit.SourceFromRequest(r),
		completion.Model, q.Range.String(), q.Customer)

	respondData(w, r, http.StatusOK, diagnosticResponse{
		Text:     completion.Text,
		Model:    completion.Model,
		Failures: completion.Failures,
		Period:   q.Range.String(),
		Customer: label,
	}, h.reportMeta(r, q, start))
}

// Export handles POST /api/v1/export.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body", nil)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondAPIError(w, r, http.StatusBadRequest, verr.ToAPIError())
		return
	}

	doc, err := h.exporter.Render(export.Format(req.Format), req.Text, req.Filename)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	session := auth.SessionFromContext(r.Context())
	h.audit.LogExport(r.Context(), actorFor(session), audit.SourceFromRequest(r), req.Format, "diagnostic", "", session.Customer)
	writeDocument(w, r, doc)
}

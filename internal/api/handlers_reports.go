// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/storelens/internal/audit"
	"github.com/tomtom215/storelens/internal/auth"
	"github.com/tomtom215/storelens/internal/authz"
	"github.com/tomtom215/storelens/internal/config"
	"github.com/tomtom215/storelens/internal/export"
	"github.com/tomtom215/storelens/internal/logging"
	"github.com/tomtom215/storelens/internal/models"
	"github.com/tomtom215/storelens/internal/period"
	"github.com/tomtom215/storelens/internal/reports"
	"github.com/tomtom215/storelens/internal/validation"
)

type viewFunc func(ctx context.Context, q reports.Query) (any, error)

func asView[T any](fn func(context.Context, reports.Query) (*T, error)) viewFunc {
	return func(ctx context.Context, q reports.Query) (any, error) {
		v, err := fn(ctx, q)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

// viewFor returns the dashboard view named in the URL.
func (h *Handler) viewFor(name string) (viewFunc, bool) {
	switch name {
	case "summary":
		return asView(h.dashboard.Summary), true
	case "sales":
		return asView(h.dashboard.Sales), true
	case "products":
		return asView(h.dashboard.Products), true
	case "channels":
		return asView(h.dashboard.Channels), true
	case "engagement":
		return asView(h.dashboard.Engagement), true
	case "pages":
		return asView(h.dashboard.Pages), true
	}
	return nil, false
}

// resolveQuery validates period and customer parameters against the
// session. It writes the error response and returns false on failure.
func (h *Handler) resolveQuery(w http.ResponseWriter, r *http.Request, p reportParams) (reports.Query, bool) {
	if verr := validation.ValidateStruct(&p); verr != nil {
		respondAPIError(w, r, http.StatusBadRequest, verr.ToAPIError())
		return reports.Query{}, false
	}

	rng, err := period.Resolve(p.Preset, p.Start, p.End, h.now())
	if err != nil {
		respondServiceError(w, r, err)
		return reports.Query{}, false
	}

	scope, err := auth.ResolveScope(auth.SessionFromContext(r.Context()), p.Customer)
	if err != nil {
		respondServiceError(w, r, err)
		return reports.Query{}, false
	}
	return reports.Query{Range: rng, Customer: scope}, true
}

func (h *Handler) reportMeta(r *http.Request, q reports.Query, start time.Time) models.Metadata {
	meta := newMeta(r, start)
	meta.Period = q.Range.String()
	meta.Customer = h.cfg.CustomerName(q.Customer)
	return meta
}

// Report handles GET /api/v1/reports/{view}.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	fn, ok := h.viewFor(chi.URLParam(r, "view"))
	if !ok {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "unknown report view", nil)
		return
	}
	q, ok := h.resolveQuery(w, r, reportParamsFromQuery(r))
	if !ok {
		return
	}

	view, err := fn(r.Context(), q)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, view, h.reportMeta(r, q, start))
}

// ReportWorkbook handles GET /api/v1/reports/{view}/xlsx.
func (h *Handler) ReportWorkbook(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "view")
	fn, ok := h.viewFor(name)
	if !ok {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "unknown report view", nil)
		return
	}
	q, ok := h.resolveQuery(w, r, reportParamsFromQuery(r))
	if !ok {
		return
	}

	view, err := fn(r.Context(), q)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	sheets, err := export.ViewSheets(view)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to lay out workbook", err)
		return
	}
	data, err := export.Workbook(sheets)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to build workbook", err)
		return
	}

	filename := fmt.Sprintf("storelens-%s-%s_%s.xlsx", name, q.Range.StartDate(), q.Range.EndDate())
	h.audit.LogExport(r.Context(), actorFor(auth.SessionFromContext(r.Context())), audit.SourceFromRequest(r),
		"xlsx", name, q.Range.String(), q.Customer)
	writeDocument(w, r, &export.Document{Data: data, ContentType: export.ContentTypeWorkbook, Filename: filename})
}

// Periods handles GET /api/v1/periods.
func (h *Handler) Periods(w http.ResponseWriter, r *http.Request) {
	respondOK(w, r, map[string]interface{}{
		"default": period.DefaultPreset,
		"presets": period.Presets(h.now()),
	})
}

type customerOption struct {
	Scope string `json:"scope"`
	Name  string `json:"name"`
}

// Customers handles GET /api/v1/customers. Admins get every configured
// customer after the all-customers option; regular users get their own.
func (h *Handler) Customers(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	if !h.authzMW.Can(r, authz.ObjectAllCustomers, authz.ActionRead) {
		if session.Customer == "" {
			respondServiceError(w, r, auth.ErrNoCustomer)
			return
		}
		respondOK(w, r, []customerOption{{Scope: session.Customer, Name: h.cfg.CustomerName(session.Customer)}})
		return
	}

	scopes := h.cfg.CustomerScopes()
	options := make([]customerOption, 0, len(scopes)+1)
	options = append(options, customerOption{Scope: "", Name: config.AllCustomersLabel})
	for _, scope := range scopes {
		options = append(options, customerOption{Scope: scope, Name: h.cfg.CustomerName(scope)})
	}
	respondOK(w, r, options)
}

// writeDocument serves a rendered file as a download.
func writeDocument(w http.ResponseWriter, r *http.Request, doc *export.Document) {
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Data); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to write document")
	}
}

// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/storelens/internal/authz"
	"github.com/tomtom215/storelens/internal/middleware"
)

// Router wires handlers to routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil mw uses settings derived from the
// handler's security config.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(ChiMiddlewareConfigFrom(&handler.cfg.Security))
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// Setup builds the HTTP handler.
func (router *Router) Setup() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.Compression)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())

		r.Get("/health", h.Health)
		r.Get("/health/live", h.HealthLive)

		r.Route("/auth", func(r chi.Router) {
			r.With(router.chiMiddleware.RateLimitLogin()).Post("/login", h.Login)

			r.Group(func(r chi.Router) {
				r.Use(h.authMW.Authenticate)
				r.Post("/logout", h.Logout)
				r.Get("/session", h.Session)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(h.authMW.Authenticate)
			r.Use(router.chiMiddleware.RateLimit())

			r.Get("/periods", h.Periods)
			r.Get("/customers", h.Customers)

			r.Route("/reports", func(r chi.Router) {
				r.Use(h.authzMW.Require(authz.ObjectReports, authz.ActionRead))
				r.Get("/{view}", h.Report)
				r.Get("/{view}/xlsx", h.ReportWorkbook)
			})

			r.With(h.authzMW.Require(authz.ObjectDiagnostic, authz.ActionRead)).Post("/diagnostic", h.Diagnostic)
			r.With(h.authzMW.Require(authz.ObjectExport, authz.ActionRead)).Post("/export", h.Export)

			r.Route("/admin/users", func(r chi.Router) {
				r.With(h.authzMW.Require(authz.ObjectUsers, authz.ActionRead)).Get("/", h.ListUsers)
				r.With(h.authzMW.Require(authz.ObjectUsers, authz.ActionWrite)).Post("/", h.CreateUser)
				r.With(h.authzMW.Require(authz.ObjectUsers, authz.ActionWrite)).Delete("/{id}", h.DeleteUser)
			})
			r.With(h.authzMW.Require(authz.ObjectAudit, authz.ActionRead)).Get("/admin/audit", h.AuditEvents)
		})
	})

	return r
}

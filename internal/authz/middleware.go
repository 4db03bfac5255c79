// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package authz

import (
	"net/http"

	"github.com/tomtom215/storelens/internal/auth"
	"github.com/tomtom215/storelens/internal/logging"
	"github.com/tomtom215/storelens/internal/metrics"
)

// Middleware enforces role permissions on authenticated requests.
type Middleware struct {
	enforcer *Enforcer
}

// NewMiddleware creates authorization middleware backed by enforcer.
func NewMiddleware(enforcer *Enforcer) *Middleware {
	return &Middleware{enforcer: enforcer}
}

// Require rejects requests whose session role may not perform action on
// object. It must run after auth.Middleware.Authenticate.
func (m *Middleware) Require(object, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := auth.SessionFromContext(r.Context())
			if session == nil {
				auth.WriteError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
				return
			}

			allowed, err := m.enforcer.Enforce(session.Role, object, action)
			if err != nil {
				logging.Ctx(r.Context()).Error().Err(err).Msg("Authorization error")
				auth.WriteError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "authorization check failed")
				return
			}
			metrics.RecordAuthzDecision(session.Role, object, action, allowed)

			if !allowed {
				logging.Ctx(r.Context()).Warn().
					Str("username", session.Username).
					Str("role", session.Role).
					Str("object", object).
					Str("action", action).
					Msg("Access denied")
				auth.WriteError(w, r, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Can reports whether the request's session may perform action on object.
// Handlers use it for decisions that change a response rather than deny it.
func (m *Middleware) Can(r *http.Request, object, action string) bool {
	session := auth.SessionFromContext(r.Context())
	if session == nil {
		return false
	}
	allowed, err := m.enforcer.Enforce(session.Role, object, action)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Authorization error")
		return false
	}
	return allowed
}

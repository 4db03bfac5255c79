// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/storelens/internal/audit"
	"github.com/tomtom215/storelens/internal/auth"
	"github.com/tomtom215/storelens/internal/validation"
)

type sessionInfo struct {
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	Customer     string    `json:"customer,omitempty"`
	CustomerName string    `json:"customer_name"`
	ExpiresAt    time.Time `json:"expires_at"`
	Permissions  []string  `json:"permissions,omitempty"`
}

type loginResponse struct {
	Token   string      `json:"token"`
	Session sessionInfo `json:"session"`
}

func (h *Handler) sessionInfo(s *auth.Session) sessionInfo {
	info := sessionInfo{
		Username:     s.Username,
		Role:         s.Role,
		Customer:     s.Customer,
		CustomerName: h.cfg.CustomerName(s.Customer),
		ExpiresAt:    s.ExpiresAt,
	}
	if h.enforcer != nil {
		if perms, err := h.enforcer.Permissions(s.Role); err == nil {
			info.Permissions = perms
		}
	}
	return info
}

// Login handles POST /api/v1/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body", nil)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondAPIError(w, r, http.StatusBadRequest, verr.ToAPIError())
		return
	}

	res, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		h.audit.LogLoginFailure(r.Context(), req.Username, audit.SourceFromRequest(r), "invalid credentials")
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid username or password", nil)
		return
	}
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "login failed", err)
		return
	}

	h.audit.LogLogin(r.Context(), actorFor(res.Session), audit.SourceFromRequest(r))
	h.authMW.SetTokenCookie(w, res.Token, res.Session.ExpiresAt)
	respondOK(w, r, loginResponse{Token: res.Token, Session: h.sessionInfo(res.Session)})
}

// Logout handles POST /api/v1/auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	if err := h.auth.Logout(r.Context(), session.ID); err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "logout failed", err)
		return
	}
	h.audit.LogLogout(r.Context(), actorFor(session), audit.SourceFromRequest(r))
	h.authMW.ClearTokenCookie(w)
	respondOK(w, r, map[string]bool{"logged_out": true})
}

// Session handles GET /api/v1/auth/session.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	respondOK(w, r, h.sessionInfo(auth.SessionFromContext(r.Context())))
}

// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/storelens/internal/audit"
	"github.com/tomtom215/storelens/internal/auth"
	"github.com/tomtom215/storelens/internal/logging"
	"github.com/tomtom215/storelens/internal/models"
	"github.com/tomtom215/storelens/internal/validation"
)

// ListUsers handles GET /api/v1/admin/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatabaseError, "failed to list users", err)
		return
	}
	respondOK(w, r, users)
}

// CreateUser handles POST /api/v1/admin/users. Admin accounts are stored
// without a customer scope.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body", nil)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Customer = strings.TrimSpace(req.Customer)
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondAPIError(w, r, http.StatusBadRequest, verr.ToAPIError())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed to hash password", err)
		return
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         req.Role,
		Customer:     req.Customer,
	}
	if user.Role == models.RoleAdmin {
		user.Customer = ""
	}
	if err := h.users.CreateUser(r.Context(), user); err != nil {
		respondServiceError(w, r, err)
		return
	}

	session := auth.SessionFromContext(r.Context())
	h.audit.LogUserCreated(r.Context(), actorFor(session), audit.SourceFromRequest(r),
		audit.Target{ID: strconv.FormatInt(user.ID, 10), Type: "user", Name: user.Username}, user.Role, user.Customer)
	logging.Ctx(r.Context()).Info().
		Str("created_by", session.Username).
		Str("username", user.Username).
		Str("role", user.Role).
		Msg("User created")
	respondData(w, r, http.StatusCreated, user, newMeta(r, time.Time{}))
}

// DeleteUser handles DELETE /api/v1/admin/users/{id}. Sessions of the deleted
// user are revoked; an admin cannot delete their own account.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, "invalid user id", nil)
		return
	}
	session := auth.SessionFromContext(r.Context())
	if session.UserID == id {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, "cannot delete your own account", nil)
		return
	}

	if err := h.users.DeleteUser(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	revoked, err := h.auth.RevokeUser(r.Context(), id)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Int64("user_id", id).Msg("Failed to revoke sessions of deleted user")
	}

	h.audit.LogUserDeleted(r.Context(), actorFor(session), audit.SourceFromRequest(r),
		audit.Target{ID: strconv.FormatInt(id, 10), Type: "user"}, revoked)
	logging.Ctx(r.Context()).Info().
		Str("deleted_by", session.Username).
		Int64("user_id", id).
		Int("revoked_sessions", revoked).
		Msg("User deleted")
	respondOK(w, r, map[string]interface{}{"deleted": id, "revoked_sessions": revoked})
}

// AuditEvents handles GET /api/v1/admin/audit. Optional query parameters:
// type (repeatable), outcome, actor, since (RFC 3339) and limit.
func (h *Handler) AuditEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := audit.QueryFilter{
		Outcome: audit.Outcome(q.Get("outcome")),
		Actor:   q.Get("actor"),
	}
	for _, t := range q["type"] {
		filter.Types = append(filter.Types, audit.EventType(t))
	}
	if v := q.Get("since"); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, "since must be an RFC 3339 timestamp", nil)
			return
		}
		filter.Since = since
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, "limit must be a positive integer", nil)
			return
		}
		filter.Limit = limit
	}

	events, err := h.audit.Query(r.Context(), filter)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatabaseError, "failed to query audit events", err)
		return
	}
	respondOK(w, r, events)
}

// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/storelens/internal/logging"
	"github.com/tomtom215/storelens/internal/models"
)

// TokenCookieName is the cookie carrying the JWT for browser clients.
const TokenCookieName = "token"

type contextKey string

const sessionContextKey contextKey = "session"

// ContextWithSession returns a context carrying session.
func ContextWithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// SessionFromContext returns the session set by Authenticate, or nil.
func SessionFromContext(ctx context.Context) *Session {
	session, _ := ctx.Value(sessionContextKey).(*Session)
	return session
}

// Middleware authenticates requests against the session service.
type Middleware struct {
	service      *Service
	cookieSecure bool
}

// NewMiddleware returns request authentication bound to service.
func NewMiddleware(service *Service, cookieSecure bool) *Middleware {
	return &Middleware{service: service, cookieSecure: cookieSecure}
}

// Authenticate requires a valid token from the Authorization header or the
// token cookie and puts the live session into the request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := ExtractToken(r)
		if err != nil {
			WriteError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
			return
		}

		session, err := m.service.Resolve(r.Context(), token)
		if err != nil {
			if !errors.Is(err, ErrUnauthenticated) {
				logging.Ctx(r.Context()).Error().Err(err).Msg("Session lookup failed")
			}
			WriteError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired session")
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), session)))
	})
}

// ExtractToken reads a Bearer token, falling back to the token cookie.
func ExtractToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		cookie, err := r.Cookie(TokenCookieName)
		if err != nil || cookie.Value == "" {
			return "", errors.New("missing token")
		}
		return cookie.Value, nil
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}

// SetTokenCookie stores token in an HttpOnly cookie expiring with the session.
func (m *Middleware) SetTokenCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   m.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearTokenCookie expires the token cookie.
func (m *Middleware) ClearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// WriteError writes a failed JSON envelope. Middleware that rejects a request
// before it reaches a handler uses it.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := models.APIResponse{
		Success: false,
		Error:   &models.APIError{Code: code, Message: message},
		Meta: models.Metadata{
			Timestamp: time.Now().UTC(),
			RequestID: logging.RequestIDFromContext(r.Context()),
		},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to write error response")
	}
}

// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/storelens/internal/database"
	"github.com/tomtom215/storelens/internal/logging"
	"github.com/tomtom215/storelens/internal/metrics"
	"github.com/tomtom215/storelens/internal/models"
)

var (
	// ErrInvalidCredentials is returned for an unknown username or a wrong
	// password. The two cases are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUnauthenticated is returned for a missing, invalid or revoked token.
	ErrUnauthenticated = errors.New("authentication required")
)

// UserLookup finds stored accounts by username.
type UserLookup interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// LoginResult is a successful login: the signed token and its session.
type LoginResult struct {
	Token   string
	Session *Session
}

// Service creates, resolves and destroys sessions.
type Service struct {
	users UserLookup
	store SessionStore
	jwt   *JWTManager
}

// NewService wires credential lookup, session storage and token signing.
func NewService(users UserLookup, store SessionStore, jwt *JWTManager) *Service {
	return &Service{users: users, store: store, jwt: jwt}
}

// Login verifies credentials and opens a session.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		metrics.RecordLogin("invalid_credentials")
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, database.ErrUserNotFound) {
		burnComparison(password)
		metrics.RecordLogin("invalid_credentials")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		metrics.RecordLogin("error")
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !CheckPassword(user.PasswordHash, password) {
		metrics.RecordLogin("invalid_credentials")
		logging.Ctx(ctx).Info().Str("username", username).Msg("Login rejected")
		return nil, ErrInvalidCredentials
	}

	session, err := NewSession(user, s.jwt.Timeout())
	if err != nil {
		metrics.RecordLogin("error")
		return nil, err
	}
	if err := s.store.Create(ctx, session); err != nil {
		metrics.RecordLogin("error")
		return nil, fmt.Errorf("store session: %w", err)
	}
	token, err := s.jwt.GenerateToken(session)
	if err != nil {
		_ = s.store.Delete(ctx, session.ID)
		metrics.RecordLogin("error")
		return nil, err
	}

	metrics.RecordLogin("success")
	metrics.ActiveSessions.Inc()
	logging.Ctx(ctx).Info().
		Str("username", user.Username).
		Str("role", user.Role).
		Msg("Login succeeded")
	return &LoginResult{Token: token, Session: session}, nil
}

// Resolve validates token and returns its live session. Tokens whose session
// was deleted or has expired are rejected with ErrUnauthenticated.
func (s *Service) Resolve(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Msg("Token rejected")
		return nil, ErrUnauthenticated
	}

	session, err := s.store.Get(ctx, claims.SessionID())
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrSessionExpired):
		return nil, ErrUnauthenticated
	case err != nil:
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session.Username != claims.Username {
		return nil, ErrUnauthenticated
	}

	if err := s.store.Touch(ctx, session.ID, session.ExpiresAt); err != nil {
		logging.Ctx(ctx).Debug().Err(err).Msg("Failed to touch session")
	}
	return session, nil
}

// Logout destroys the session. Unknown sessions are not an error.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if _, err := s.store.Get(ctx, sessionID); err == nil {
		metrics.ActiveSessions.Dec()
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// RevokeUser destroys every session of a user, e.g. after the account is
// deleted.
func (s *Service) RevokeUser(ctx context.Context, userID int64) (int, error) {
	n, err := s.store.DeleteByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("revoke sessions: %w", err)
	}
	metrics.ActiveSessions.Sub(float64(n))
	return n, nil
}

// CleanupExpired removes expired sessions from the store.
func (s *Service) CleanupExpired(ctx context.Context) (int, error) {
	n, err := s.store.CleanupExpired(ctx)
	if err != nil {
		return 0, err
	}
	metrics.ActiveSessions.Sub(float64(n))
	return n, nil
}

// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

// Package auth authenticates dashboard users.
//
// A successful Login creates a Session in a SessionStore (in memory or in
// BadgerDB) and returns an HS256 JWT whose ID claim is the session ID.
// Tokens are accepted from the Authorization header or the "token" cookie
// and are only valid while their session exists, so Logout revokes the
// token immediately.
//
// Passwords are stored as bcrypt hashes. ResolveScope decides which customer
// a request may read: regular users are pinned to their own customer and
// admins may choose any customer or all of them.
//
// Usage:
//
//	store, closer, err := auth.NewSessionStore(&cfg.Security)
//	jwtManager, err := auth.NewJWTManager(&cfg.Security)
//	service := auth.NewService(db, store, jwtManager)
//	mw := auth.NewMiddleware(service, cfg.Security.CookieSecure)
//	r.With(mw.Authenticate).Get("/api/v1/auth/session", handler)
package auth

// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

// Package authz maps dashboard roles to permissions with Casbin.
//
// The model is plain RBAC over (role, object, action) with exact object
// matching. The embedded policy grants:
//
//	p, comum, reports, read
//	p, comum, diagnostic, read
//	p, comum, export, read
//	p, admin, users, read
//	p, admin, users, write
//	p, admin, customers:all, read
//	p, admin, audit, read
//	g, admin, comum
//
// Require wraps a chi route; it reads the session placed in the context by
// auth.Middleware.Authenticate and answers 403 with a JSON envelope when the
// role lacks the permission:
//
//	r.With(authMW.Authenticate, authzMW.Require(authz.ObjectUsers, authz.ActionWrite)).
//	    Post("/api/v1/admin/users", h.CreateUser)
package authz

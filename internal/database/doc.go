// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

// Package database stores dashboard credentials in DuckDB.
//
// The schema is a users table: a unique username, a bcrypt password
// hash, an optional customer scope and a role constrained to "admin" or
// "comum". Tables are created on startup and later changes are applied as
// versioned migrations tracked in schema_migrations. The audit package keeps
// its audit_events table in the same file.
//
// Lookups that find nothing return ErrUserNotFound; inserting a taken
// username returns ErrUserExists. Both are matched with errors.Is.
//
// Use ":memory:" as the path in tests.
package database

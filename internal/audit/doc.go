// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

// Package audit records the security audit trail: logins (accepted and
// rejected), logouts, account creation and deletion by administrators, and
// every report export or generated diagnostic.
//
// Events are queued on a buffered channel and written by a single goroutine,
// so a slow store never delays a request. When the buffer is full the event
// is dropped with a warning.
//
// Two stores are provided:
//   - DuckDBStore keeps events in the audit_events table of the users database
//   - MemoryStore keeps a bounded ring of recent events, for tests
//
// Retention is enforced by Logger.CleanupExpired, run on an interval by the
// supervisor's maintenance layer.
//
// Usage:
//
//	store := audit.NewDuckDBStore(db.Conn())
//	if err := store.CreateTable(ctx); err != nil {
//		return err
//	}
//	auditLog := audit.NewLogger(store, cfg.Audit)
//	defer auditLog.Close()
//
//	auditLog.LogLogin(r.Context(), audit.UserActor(u.ID, u.Username, u.Role, u.Customer), audit.SourceFromRequest(r))
package audit

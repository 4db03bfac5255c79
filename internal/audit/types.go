// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package audit

import (
	"context"
	"time"

	"github.com/goccy/go-json"
)

// EventType categorizes audit events.
type EventType string

const (
	EventTypeLoginSuccess EventType = "auth.login"
	EventTypeLoginFailure EventType = "auth.login_failed"
	EventTypeLogout       EventType = "auth.logout"

	EventTypeUserCreated EventType = "user.created"
	EventTypeUserDeleted EventType = "user.deleted"

	EventTypeReportExport EventType = "data.export"
	EventTypeDiagnostic   EventType = "data.diagnostic"
)

// Severity indicates how closely an event deserves review.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Outcome indicates whether the audited action succeeded.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Event is one entry of the audit trail.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Severity  Severity  `json:"severity"`
	Outcome   Outcome   `json:"outcome"`

	Actor  Actor   `json:"actor"`
	Target *Target `json:"target,omitempty"`
	Source Source  `json:"source"`

	Description string `json:"description"`

	// Metadata holds event-specific fields as a JSON object.
	Metadata json.RawMessage `json:"metadata,omitempty"`

	RequestID string `json:"request_id,omitempty"`
}

// Actor is the account behind an event. ID is empty for failed logins.
type Actor struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
	Customer string `json:"customer,omitempty"`
}

// Target is the object an action was applied to.
type Target struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

// Source is where the request came from.
type Source struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent,omitempty"`
}

// Store persists audit events.
type Store interface {
	Save(ctx context.Context, event *Event) error

	// Query returns matching events, newest first.
	Query(ctx context.Context, filter QueryFilter) ([]Event, error)

	// Delete removes events older than the cutoff and returns the count.
	Delete(ctx context.Context, olderThan time.Time) (int64, error)
}

// QueryFilter narrows an audit query. Zero fields match everything.
type QueryFilter struct {
	Types   []EventType `json:"types,omitempty"`
	Outcome Outcome     `json:"outcome,omitempty"`
	Actor   string      `json:"actor,omitempty"`
	Since   time.Time   `json:"since,omitempty"`
	Limit   int         `json:"limit,omitempty"`
}

const (
	defaultQueryLimit = 100
	maxQueryLimit     = 1000
)

// normalized clamps Limit into [1, maxQueryLimit].
func (f QueryFilter) normalized() QueryFilter {
	switch {
	case f.Limit <= 0:
		f.Limit = defaultQueryLimit
	case f.Limit > maxQueryLimit:
		f.Limit = maxQueryLimit
	}
	return f
}

func (f *QueryFilter) matches(e *Event) bool {
	if len(f.Types) > 0 {
		found := false
		for _, t := range f.Types {
			if e.Type == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Outcome != "" && e.Outcome != f.Outcome {
		return false
	}
	if f.Actor != "" && e.Actor.Name != f.Actor {
		return false
	}
	if !f.Since.IsZero() && e.Timestamp.Before(f.Since) {
		return false
	}
	return true
}

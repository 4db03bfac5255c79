// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/storelens/internal/logging"
)

// DuckDBStore persists audit events in the users database.
type DuckDBStore struct {
	db *sql.DB
}

// NewDuckDBStore wraps an open DuckDB connection. Call CreateTable before use.
func NewDuckDBStore(db *sql.DB) *DuckDBStore {
	return &DuckDBStore{db: db}
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS audit_events (
		id TEXT PRIMARY KEY,
		timestamp TIMESTAMPTZ NOT NULL,
		type TEXT NOT NULL,
		severity TEXT NOT NULL,
		outcome TEXT NOT NULL,
		actor_id TEXT,
		actor_name TEXT NOT NULL,
		actor_role TEXT,
		actor_customer TEXT,
		target_id TEXT,
		target_type TEXT,
		target_name TEXT,
		source_ip TEXT NOT NULL,
		source_user_agent TEXT,
		description TEXT NOT NULL,
		metadata TEXT,
		request_id TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_events(timestamp)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_type ON audit_events(type)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_actor_name ON audit_events(actor_name)`,
}

// CreateTable creates the audit_events table if it does not exist.
func (s *DuckDBStore) CreateTable(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create audit schema: %w", err)
		}
	}
	logging.Debug().Msg("Audit events table created/verified")
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Save inserts an event.
func (s *DuckDBStore) Save(ctx context.Context, event *Event) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}

	var targetID, targetType, targetName sql.NullString
	if event.Target != nil {
		targetID = nullString(event.Target.ID)
		targetType = nullString(event.Target.Type)
		targetName = nullString(event.Target.Name)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events (
			id, timestamp, type, severity, outcome,
			actor_id, actor_name, actor_role, actor_customer,
			target_id, target_type, target_name,
			source_ip, source_user_agent,
			description, metadata, request_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.Timestamp.UTC(), string(event.Type), string(event.Severity), string(event.Outcome),
		nullString(event.Actor.ID), event.Actor.Name, nullString(event.Actor.Role), nullString(event.Actor.Customer),
		targetID, targetType, targetName,
		event.Source.IPAddress, nullString(event.Source.UserAgent),
		event.Description, nullString(string(event.Metadata)), nullString(event.RequestID),
	)
	if err != nil {
		return fmt.Errorf("failed to save audit event: %w", err)
	}
	return nil
}

// buildConditions renders the WHERE clause for filter.
func buildConditions(filter QueryFilter) (string, []any) {
	var conditions []string
	var args []any

	if len(filter.Types) > 0 {
		placeholders := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			placeholders[i] = "?"
			args = append(args, string(t))
		}
		conditions = append(conditions, "type IN ("+strings.Join(placeholders, ",")+")")
	}
	if filter.Outcome != "" {
		conditions = append(conditions, "outcome = ?")
		args = append(args, string(filter.Outcome))
	}
	if filter.Actor != "" {
		conditions = append(conditions, "actor_name = ?")
		args = append(args, filter.Actor)
	}
	if !filter.Since.IsZero() {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, filter.Since.UTC())
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// Query returns matching events, newest first.
func (s *DuckDBStore) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	filter = filter.normalized()
	where, args := buildConditions(filter)
	args = append(args, filter.Limit)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, type, severity, outcome,
			actor_id, actor_name, actor_role, actor_customer,
			target_id, target_type, target_name,
			source_ip, source_user_agent,
			description, metadata, request_id
		FROM audit_events`+where+`
		ORDER BY timestamp DESC, id
		LIMIT ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}
	defer rows.Close()

	events := make([]Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit events: %w", err)
	}
	return events, nil
}

func scanEvent(rows *sql.Rows) (*Event, error) {
	var (
		e                                 Event
		eventType, severity, outcome      string
		actorID, actorRole, actorCustomer sql.NullString
		targetID, targetType, targetName  sql.NullString
		userAgent, metadata, requestID    sql.NullString
	)
	if err := rows.Scan(
		&e.ID, &e.Timestamp, &eventType, &severity, &outcome,
		&actorID, &e.Actor.Name, &actorRole, &actorCustomer,
		&targetID, &targetType, &targetName,
		&e.Source.IPAddress, &userAgent,
		&e.Description, &metadata, &requestID,
	); err != nil {
		return nil, fmt.Errorf("failed to scan audit event: %w", err)
	}

	e.Type = EventType(eventType)
	e.Severity = Severity(severity)
	e.Outcome = Outcome(outcome)
	e.Actor.ID = actorID.String
	e.Actor.Role = actorRole.String
	e.Actor.Customer = actorCustomer.String
	if targetID.Valid {
		e.Target = &Target{ID: targetID.String, Type: targetType.String, Name: targetName.String}
	}
	e.Source.UserAgent = userAgent.String
	if metadata.Valid {
		e.Metadata = json.RawMessage(metadata.String)
	}
	e.RequestID = requestID.String
	return &e, nil
}

// Delete removes events older than the cutoff.
func (s *DuckDBStore) Delete(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM audit_events WHERE timestamp < ?`, olderThan.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete audit events: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted audit events: %w", err)
	}
	return n, nil
}

// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package audit

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/storelens/internal/config"
	"github.com/tomtom215/storelens/internal/logging"
	"github.com/tomtom215/storelens/internal/middleware"
)

const saveTimeout = 5 * time.Second

// Logger records audit events through a buffered asynchronous writer so
// request handlers never wait on the store. A nil *Logger discards events.
type Logger struct {
	cfg   config.AuditConfig
	store Store
	now   func() time.Time

	// mu guards closed. Log holds it shared across the send so Close never
	// starts the final drain while an event is still being queued.
	mu     sync.RWMutex
	closed bool

	events    chan *Event
	stop      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewLogger starts the writer goroutine. Call Close to flush and stop it.
func NewLogger(store Store, cfg config.AuditConfig) *Logger {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1000
	}
	l := &Logger{
		cfg:    cfg,
		store:  store,
		now:    time.Now,
		events: make(chan *Event, cfg.BufferSize),
		stop:   make(chan struct{}),
	}
	l.wg.Add(1)
	go l.writer()
	return l
}

func (l *Logger) writer() {
	defer l.wg.Done()
	for {
		select {
		case <-l.stop:
			for {
				select {
				case event := <-l.events:
					l.write(event)
				default:
					return
				}
			}
		case event := <-l.events:
			l.write(event)
		}
	}
}

func (l *Logger) write(event *Event) {
	if l.cfg.LogToStdout {
		if data, err := json.Marshal(event); err == nil {
			logging.Info().RawJSON("event", data).Msg("Audit event")
		}
	}
	if l.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := l.store.Save(ctx, event); err != nil {
		logging.Error().Err(err).Str("event_type", string(event.Type)).Msg("Failed to save audit event")
	}
}

// Enabled reports whether events are being recorded.
func (l *Logger) Enabled() bool {
	return l != nil && l.cfg.Enabled
}

// Log queues an event, filling in ID and Timestamp when unset. Events are
// dropped with a warning when the buffer is full or the logger is closed.
func (l *Logger) Log(event *Event) {
	if !l.Enabled() {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = l.now()
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		logging.Warn().Str("event_type", string(event.Type)).Msg("Audit logger closed, dropping event")
		return
	}
	select {
	case l.events <- event:
	default:
		logging.Warn().Str("event_type", string(event.Type)).Msg("Audit event buffer full, dropping event")
	}
}

// Close flushes queued events and stops the writer.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.closeOnce.Do(func() {
		l.mu.Lock()
		l.closed = true
		l.mu.Unlock()
		close(l.stop)
		l.wg.Wait()
	})
	return nil
}

// Query returns stored events matching filter, newest first.
func (l *Logger) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	if l == nil || l.store == nil {
		return []Event{}, nil
	}
	return l.store.Query(ctx, filter)
}

// CleanupExpired removes events past the retention period.
func (l *Logger) CleanupExpired(ctx context.Context) (int, error) {
	if l == nil || l.store == nil || l.cfg.RetentionDays <= 0 {
		return 0, nil
	}
	cutoff := l.now().AddDate(0, 0, -l.cfg.RetentionDays)
	n, err := l.store.Delete(ctx, cutoff)
	return int(n), err
}

// LogLogin records a successful login.
func (l *Logger) LogLogin(ctx context.Context, actor Actor, source Source) {
	l.Log(&Event{
		Type:        EventTypeLoginSuccess,
		Severity:    SeverityInfo,
		Outcome:     OutcomeSuccess,
		Actor:       actor,
		Source:      source,
		Description: "User logged in",
		RequestID:   middleware.GetRequestID(ctx),
	})
}

// LogLoginFailure records a rejected login for username.
func (l *Logger) LogLoginFailure(ctx context.Context, username string, source Source, reason string) {
	l.Log(&Event{
		Type:        EventTypeLoginFailure,
		Severity:    SeverityWarning,
		Outcome:     OutcomeFailure,
		Actor:       Actor{Name: username},
		Source:      source,
		Description: "Login rejected: " + reason,
		Metadata:    mustJSON(map[string]string{"reason": reason}),
		RequestID:   middleware.GetRequestID(ctx),
	})
}

// LogLogout records the end of a session.
func (l *Logger) LogLogout(ctx context.Context, actor Actor, source Source) {
	l.Log(&Event{
		Type:        EventTypeLogout,
		Severity:    SeverityInfo,
		Outcome:     OutcomeSuccess,
		Actor:       actor,
		Source:      source,
		Description: "User logged out",
		RequestID:   middleware.GetRequestID(ctx),
	})
}

// LogUserCreated records an administrator creating an account.
func (l *Logger) LogUserCreated(ctx context.Context, actor Actor, source Source, target Target, role, customer string) {
	l.Log(&Event{
		Type:        EventTypeUserCreated,
		Severity:    SeverityWarning,
		Outcome:     OutcomeSuccess,
		Actor:       actor,
		Target:      &target,
		Source:      source,
		Description: "User created: " + target.Name,
		Metadata:    mustJSON(map[string]string{"role": role, "customer": customer}),
		RequestID:   middleware.GetRequestID(ctx),
	})
}

// LogUserDeleted records an administrator deleting an account.
func (l *Logger) LogUserDeleted(ctx context.Context, actor Actor, source Source, target Target, revokedSessions int) {
	l.Log(&Event{
		Type:        EventTypeUserDeleted,
		Severity:    SeverityWarning,
		Outcome:     OutcomeSuccess,
		Actor:       actor,
		Target:      &target,
		Source:      source,
		Description: "User deleted: " + target.ID,
		Metadata:    mustJSON(map[string]int{"revoked_sessions": revokedSessions}),
		RequestID:   middleware.GetRequestID(ctx),
	})
}

// LogExport records a downloaded report document.
func (l *Logger) LogExport(ctx context.Context, actor Actor, source Source, format, view, period, customer string) {
	l.Log(&Event{
		Type:        EventTypeReportExport,
		Severity:    SeverityInfo,
		Outcome:     OutcomeSuccess,
		Actor:       actor,
		Source:      source,
		Description: "Report exported as " + format,
		Metadata: mustJSON(map[string]string{
			"format":   format,
			"view":     view,
			"period":   period,
			"customer": customer,
		}),
		RequestID: middleware.GetRequestID(ctx),
	})
}

// LogDiagnostic records a generated diagnostic.
func (l *Logger) LogDiagnostic(ctx context.Context, actor Actor, source Source, model, period, customer string) {
	l.Log(&Event{
		Type:        EventTypeDiagnostic,
		Severity:    SeverityInfo,
		Outcome:     OutcomeSuccess,
		Actor:       actor,
		Source:      source,
		Description: "Diagnostic generated by " + model,
		Metadata: mustJSON(map[string]string{
			"model":    model,
			"period":   period,
			"customer": customer,
		}),
		RequestID: middleware.GetRequestID(ctx),
	})
}

// mustJSON marshals v, falling back to an empty object.
func mustJSON(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("{}")
	}
	return data
}

// SourceFromRequest captures the client address and user agent. The address
// is whatever RemoteAddr holds after the RealIP middleware, without the port.
func SourceFromRequest(r *http.Request) Source {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return Source{IPAddress: ip, UserAgent: r.UserAgent()}
}

// UserActor builds the actor for an account.
func UserActor(id int64, name, role, customer string) Actor {
	return Actor{ID: strconv.FormatInt(id, 10), Name: name, Role: role, Customer: customer}
}

// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := Logger()
	prevLevel := zerolog.GlobalLevel()
	SetLogger(NewTestLogger(&buf))
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() {
		SetLogger(prev)
		zerolog.SetGlobalLevel(prevLevel)
	})
	return &buf
}

func decodeLine(t *testing.T, line string) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("invalid JSON log line %q: %v", line, err)
	}
	return m
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseLevel(tt.in); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestInitJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	prev := Logger()
	t.Cleanup(func() { SetLogger(prev); zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	Init(Config{Level: "info", Format: "json", Output: &buf})
	Info().Str("view", "summary").Msg("report assembled")
	Debug().Msg("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line at info level, got %d: %q", len(lines), buf.String())
	}
	m := decodeLine(t, lines[0])
	if m["message"] != "report assembled" || m["view"] != "summary" || m["level"] != "info" {
		t.Errorf("unexpected log fields: %v", m)
	}
}

func TestCtxAddsRequestAndCorrelationIDs(t *testing.T) {
	buf := captureLogs(t)

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithCorrelationID(ctx, "corr1234")
	Ctx(ctx).Info().Msg("with ids")

	m := decodeLine(t, strings.TrimSpace(buf.String()))
	if m["request_id"] != "req-1" {
		t.Errorf("request_id = %v, want req-1", m["request_id"])
	}
	if m["correlation_id"] != "corr1234" {
		t.Errorf("correlation_id = %v, want corr1234", m["correlation_id"])
	}
}

func TestCtxPrefersContextLogger(t *testing.T) {
	_ = captureLogs(t)
	var own bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&own))
	Ctx(ctx).Info().Msg("routed")
	if !strings.Contains(own.String(), "routed") {
		t.Errorf("context logger not used, got %q", own.String())
	}
}

func TestGeneratedIDs(t *testing.T) {
	if len(GenerateCorrelationID()) != 8 {
		t.Error("correlation ID should be 8 characters")
	}
	a, b := GenerateRequestID(), GenerateRequestID()
	if a == b || len(a) != 36 {
		t.Errorf("request IDs should be unique UUIDs, got %q and %q", a, b)
	}
	if RequestIDFromContext(context.Background()) != "" {
		t.Error("empty context should have no request ID")
	}
}

func TestSlogBridge(t *testing.T) {
	buf := captureLogs(t)

	logger := NewSlogLogger().With("service", "http").WithGroup("event")
	logger.Warn("service restarted", slog.Int("attempt", 2))

	m := decodeLine(t, strings.TrimSpace(buf.String()))
	if m["level"] != "warn" || m["message"] != "service restarted" {
		t.Errorf("unexpected fields: %v", m)
	}
	if m["service"] != "http" {
		t.Errorf("service attr missing: %v", m)
	}
	if m["event.attempt"] != float64(2) {
		t.Errorf("grouped attr missing: %v", m)
	}
}

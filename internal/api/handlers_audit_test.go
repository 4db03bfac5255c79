// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package api

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/tomtom215/storelens/internal/audit"
	"github.com/tomtom215/storelens/internal/models"
)

func TestAuditTrail(t *testing.T) {
	ts := newTestServer(t)

	ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "ana", "password": "wrong-password"})
	anaToken := ts.login(t, "ana")
	rootToken := ts.login(t, "root")

	rec := ts.do(t, http.MethodPost, "/api/v1/admin/users", rootToken, map[string]string{
		"username": "bruno", "password": "senha-longa", "role": models.RoleRegular, "customer": "loja_b",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}
	var bruno models.User
	decodeData(t, rec, &bruno)
	if rec := ts.do(t, http.MethodDelete, "/api/v1/admin/users/"+strconv.FormatInt(bruno.ID, 10), rootToken, nil); rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if rec := ts.do(t, http.MethodPost, "/api/v1/auth/logout", anaToken, nil); rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d", rec.Code)
	}

	ts.waitForAudit(t, 6)

	assertError(t, ts.do(t, http.MethodGet, "/api/v1/admin/audit", ts.login(t, "ana"), nil), http.StatusForbidden, ErrCodeForbidden)
	ts.waitForAudit(t, 7)

	tests := []struct {
		name  string
		query string
		want  []audit.EventType
	}{
		{"newest first", "?limit=3", []audit.EventType{audit.EventTypeLoginSuccess, audit.EventTypeLogout, audit.EventTypeUserDeleted}},
		{"failures", "?outcome=failure", []audit.EventType{audit.EventTypeLoginFailure}},
		{"by type", "?type=user.created&type=user.deleted", []audit.EventType{audit.EventTypeUserDeleted, audit.EventTypeUserCreated}},
		{"by actor", "?actor=root&type=auth.login", []audit.EventType{audit.EventTypeLoginSuccess}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodGet, "/api/v1/admin/audit"+tt.query, rootToken, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d body %s", rec.Code, rec.Body.String())
			}
			var events []audit.Event
			decodeData(t, rec, &events)
			if len(events) != len(tt.want) {
				t.Fatalf("got %d events, want %d: %+v", len(events), len(tt.want), events)
			}
			for i, want := range tt.want {
				if events[i].Type != want {
					t.Errorf("events[%d].Type = %s, want %s", i, events[i].Type, want)
				}
			}
		})
	}

	var failures []audit.Event
	decodeData(t, ts.do(t, http.MethodGet, "/api/v1/admin/audit?outcome=failure", rootToken, nil), &failures)
	if failures[0].Actor.Name != "ana" || failures[0].Source.IPAddress == "" {
		t.Errorf("failure event = %+v", failures[0])
	}
}

func TestAuditEventsValidation(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "root")

	for _, q := range []string{"?since=yesterday", "?limit=0", "?limit=abc"} {
		assertError(t, ts.do(t, http.MethodGet, "/api/v1/admin/audit"+q, token, nil), http.StatusBadRequest, ErrCodeValidationFailed)
	}
}

func TestAuditExportEvents(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "ana")

	if rec := ts.do(t, http.MethodGet, "/api/v1/reports/summary/xlsx?start=2025-06-01&end=2025-06-10", token, nil); rec.Code != http.StatusOK {
		t.Fatalf("workbook status = %d body %s", rec.Code, rec.Body.String())
	}
	ts.waitForAudit(t, 2)

	var exported bool
	for _, e := range ts.allAudit(t) {
		if e.Type == audit.EventTypeReportExport && e.Actor.Customer == "loja_a" {
			exported = true
		}
	}
	if !exported {
		t.Error("workbook download not audited")
	}
}

func (ts *testServer) allAudit(t *testing.T) []audit.Event {
	t.Helper()
	events, err := ts.audit.Query(t.Context(), audit.QueryFilter{Limit: 1000})
	if err != nil {
		t.Fatal(err)
	}
	return events
}

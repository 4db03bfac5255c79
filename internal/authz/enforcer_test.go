// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package authz

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/storelens/internal/auth"
	"github.com/tomtom215/storelens/internal/metrics"
	"github.com/tomtom215/storelens/internal/models"
)

func setupEnforcer(t *testing.T, cfg *EnforcerConfig) *Enforcer {
	t.Helper()
	enforcer, err := NewEnforcer(cfg)
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	t.Cleanup(enforcer.Close)
	return enforcer
}

func TestEmbeddedPolicy(t *testing.T) {
	e := setupEnforcer(t, &EnforcerConfig{})

	tests := []struct {
		role, object, action string
		want                 bool
	}{
		{models.RoleRegular, ObjectReports, ActionRead, true},
		{models.RoleRegular, ObjectDiagnostic, ActionRead, true},
		{models.RoleRegular, ObjectExport, ActionRead, true},
		{models.RoleRegular, ObjectUsers, ActionRead, false},
		{models.RoleRegular, ObjectUsers, ActionWrite, false},
		{models.RoleRegular, ObjectAllCustomers, ActionRead, false},
		{models.RoleAdmin, ObjectReports, ActionRead, true},
		{models.RoleAdmin, ObjectExport, ActionRead, true},
		{models.RoleAdmin, ObjectUsers, ActionRead, true},
		{models.RoleAdmin, ObjectUsers, ActionWrite, true},
		{models.RoleAdmin, ObjectAllCustomers, ActionRead, true},
		{models.RoleAdmin, ObjectAudit, ActionRead, true},
		{models.RoleRegular, ObjectAudit, ActionRead, false},
		{models.RoleAdmin, ObjectReports, ActionWrite, false},
		{"intruso", ObjectReports, ActionRead, false},
	}
	for _, tt := range tests {
		t.Run(tt.role+"/"+tt.object+"/"+tt.action, func(t *testing.T) {
			got, err := e.Enforce(tt.role, tt.object, tt.action)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Enforce() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPermissionsIncludeInherited(t *testing.T) {
	e := setupEnforcer(t, &EnforcerConfig{})
	perms, err := e.Permissions(models.RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(perms)
	want := []string{"audit:read", "customers:all:read", "diagnostic:read", "export:read", "reports:read", "users:read", "users:write"}
	if len(perms) != len(want) {
		t.Fatalf("Permissions() = %v, want %v", perms, want)
	}
	for i := range want {
		if perms[i] != want[i] {
			t.Errorf("perms[%d] = %q, want %q", i, perms[i], want[i])
		}
	}
}

func TestPolicyFileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.csv")
	if err := os.WriteFile(path, []byte("p, comum, users, read\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	e := setupEnforcer(t, &EnforcerConfig{PolicyPath: path})

	if ok, _ := e.Enforce(models.RoleRegular, ObjectUsers, ActionRead); !ok {
		t.Error("file policy not applied")
	}
	if ok, _ := e.Enforce(models.RoleRegular, ObjectReports, ActionRead); ok {
		t.Error("embedded policy leaked into file policy")
	}
}

func TestLoadEmbeddedPolicyRejectsMalformed(t *testing.T) {
	for _, policy := range []string{"p, comum, reports", "g, admin", "x, a, b, c"} {
		e := setupEnforcer(t, &EnforcerConfig{})
		if err := loadEmbeddedPolicy(e.enforcer, policy); err == nil {
			t.Errorf("loadEmbeddedPolicy(%q) accepted", policy)
		}
	}
}

func TestDecisionCache(t *testing.T) {
	e := setupEnforcer(t, &EnforcerConfig{CacheTTL: time.Minute})
	for i := 0; i < 3; i++ {
		if _, err := e.Enforce(models.RoleAdmin, ObjectUsers, ActionWrite); err != nil {
			t.Fatal(err)
		}
	}
	if n := e.cache.len(); n != 1 {
		t.Errorf("cache entries = %d, want 1", n)
	}
	if allowed, ok := e.cache.get(models.RoleAdmin, ObjectUsers, ActionWrite); !ok || !allowed {
		t.Errorf("cached decision = %v, %v", allowed, ok)
	}
	e.Close()
	e.Close()
}

func TestRequire(t *testing.T) {
	mw := NewMiddleware(setupEnforcer(t, nil))
	handler := mw.Require(ObjectUsers, ActionWrite)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name    string
		session *auth.Session
		status  int
	}{
		{"admin", &auth.Session{Username: "root", Role: models.RoleAdmin}, http.StatusNoContent},
		{"regular", &auth.Session{Username: "ana", Role: models.RoleRegular}, http.StatusForbidden},
		{"anonymous", nil, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/users", nil)
			if tt.session != nil {
				req = req.WithContext(auth.ContextWithSession(req.Context(), tt.session))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestRequireRecordsDecision(t *testing.T) {
	mw := NewMiddleware(setupEnforcer(t, nil))
	counter := metrics.AuthzDecisions.WithLabelValues(models.RoleRegular, ObjectAllCustomers, ActionRead, "deny")
	before := testutil.ToFloat64(counter)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.ContextWithSession(req.Context(), &auth.Session{Role: models.RoleRegular}))
	mw.Require(ObjectAllCustomers, ActionRead)(http.NotFoundHandler()).ServeHTTP(httptest.NewRecorder(), req)

	if d := testutil.ToFloat64(counter) - before; d != 1 {
		t.Errorf("deny counter delta = %v, want 1", d)
	}
}

func TestCan(t *testing.T) {
	mw := NewMiddleware(setupEnforcer(t, nil))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if mw.Can(req, ObjectReports, ActionRead) {
		t.Error("anonymous request allowed")
	}
	admin := req.WithContext(auth.ContextWithSession(req.Context(), &auth.Session{Role: models.RoleAdmin}))
	if !mw.Can(admin, ObjectAllCustomers, ActionRead) {
		t.Error("admin denied customers:all")
	}
}

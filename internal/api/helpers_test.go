// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/storelens/internal/audit"
	"github.com/tomtom215/storelens/internal/auth"
	"github.com/tomtom215/storelens/internal/authz"
	"github.com/tomtom215/storelens/internal/config"
	"github.com/tomtom215/storelens/internal/dashboard"
	"github.com/tomtom215/storelens/internal/database"
	"github.com/tomtom215/storelens/internal/diagnostic"
	"github.com/tomtom215/storelens/internal/llm"
	"github.com/tomtom215/storelens/internal/models"
	"github.com/tomtom215/storelens/internal/reports"
)

const testPassword = "s3nha-forte"

var testToday = time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

type fakeDashboard struct {
	mu      sync.Mutex
	queries []reports.Query
	err     error
}

func (f *fakeDashboard) record(q reports.Query) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	return f.err
}

func (f *fakeDashboard) last() reports.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queries) == 0 {
		return reports.Query{}
	}
	return f.queries[len(f.queries)-1]
}

func (f *fakeDashboard) Summary(_ context.Context, q reports.Query) (*dashboard.Summary, error) {
	if err := f.record(q); err != nil {
		return nil, err
	}
	return &dashboard.Summary{
		KPIs:       models.KPISet{TotalRevenue: 12345.5, OrderCount: 42, ConversionRate: 0.021, AverageOrderValue: 293.94},
		Highlights: models.Highlights{TopChannel: "Organic Search", TopProduct: "Camiseta", TopRegion: "São Paulo"},
	}, nil
}

func (f *fakeDashboard) Sales(_ context.Context, q reports.Query) (*dashboard.Sales, error) {
	if err := f.record(q); err != nil {
		return nil, err
	}
	return &dashboard.Sales{DailyRevenue: []models.DailyRevenue{}}, nil
}

func (f *fakeDashboard) Products(_ context.Context, q reports.Query) (*dashboard.Products, error) {
	if err := f.record(q); err != nil {
		return nil, err
	}
	return &dashboard.Products{}, nil
}

func (f *fakeDashboard) Channels(_ context.Context, q reports.Query) (*dashboard.Channels, error) {
	if err := f.record(q); err != nil {
		return nil, err
	}
	return &dashboard.Channels{}, nil
}

func (f *fakeDashboard) Engagement(_ context.Context, q reports.Query) (*dashboard.Engagement, error) {
	if err := f.record(q); err != nil {
		return nil, err
	}
	return &dashboard.Engagement{}, nil
}

func (f *fakeDashboard) Pages(_ context.Context, q reports.Query) (*dashboard.Pages, error) {
	if err := f.record(q); err != nil {
		return nil, err
	}
	return &dashboard.Pages{}, nil
}

func (f *fakeDashboard) Collect(_ context.Context, q reports.Query) (*diagnostic.Data, error) {
	if err := f.record(q); err != nil {
		return nil, err
	}
	return &diagnostic.Data{
		KPIs:      models.KPISet{TotalRevenue: 1000, OrderCount: 10},
		TopDevice: "mobile",
		TopCity:   "Campinas",
	}, nil
}

type fakeCompleter struct {
	mu      sync.Mutex
	prompts []string
	result  *llm.Completion
	err     error
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (*llm.Completion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &llm.Completion{Text: "Diagnóstico pronto", Model: "llama-3.3-70b-versatile"}, nil
}

func (f *fakeCompleter) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

// fakeUsers backs both the auth service and the admin handlers.
type fakeUsers struct {
	mu     sync.Mutex
	byName map[string]*models.User
	nextID int64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byName: make(map[string]*models.User), nextID: 1}
}

func (f *fakeUsers) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byName[username]
	if !ok {
		return nil, database.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) ListUsers(_ context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.User, 0, len(f.byName))
	for _, u := range f.byName {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUsers) CreateUser(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byName[user.Username]; ok {
		return database.ErrUserExists
	}
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	f.nextID++
	cp := *user
	f.byName[user.Username] = &cp
	return nil
}

func (f *fakeUsers) DeleteUser(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for name, u := range f.byName {
		if u.ID == id {
			delete(f.byName, name)
			return nil
		}
	}
	return database.ErrUserNotFound
}

// add stores a user with a cheap bcrypt hash of testPassword.
func (f *fakeUsers) add(t *testing.T, username, role, customer string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	u := &models.User{Username: username, PasswordHash: string(hash), Role: role, Customer: customer}
	if err := f.CreateUser(context.Background(), u); err != nil {
		t.Fatal(err)
	}
	return u
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type testServer struct {
	handler   http.Handler
	dashboard *fakeDashboard
	llm       *fakeCompleter
	users     *fakeUsers
	sessions  *auth.MemorySessionStore
	audit     *audit.MemoryStore
}

func testConfig() *config.Config {
	return &config.Config{
		Security: config.SecurityConfig{
			JWTSecret:         "api-test-secret-with-at-least-32-characters",
			SessionTimeout:    time.Hour,
			RateLimitDisabled: true,
		},
		Customers: map[string]string{"loja_a": "Loja A", "loja_b": "Loja B"},
	}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := testConfig()

	users := newFakeUsers()
	users.add(t, "root", models.RoleAdmin, "")
	users.add(t, "ana", models.RoleRegular, "loja_a")

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		t.Fatal(err)
	}
	sessions := auth.NewMemorySessionStore()
	authService := auth.NewService(users, sessions, jwtManager)

	enforcer, err := authz.NewEnforcer(authz.DefaultEnforcerConfig())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(enforcer.Close)

	auditStore := audit.NewMemoryStore(100)
	auditLog := audit.NewLogger(auditStore, config.AuditConfig{Enabled: true, RetentionDays: 30, BufferSize: 100})
	t.Cleanup(func() { _ = auditLog.Close() })

	ts := &testServer{
		dashboard: &fakeDashboard{},
		llm:       &fakeCompleter{},
		users:     users,
		sessions:  sessions,
		audit:     auditStore,
	}
	h := NewHandler(Deps{
		Config:    cfg,
		Dashboard: ts.dashboard,
		LLM:       ts.llm,
		Users:     users,
		Auth:      authService,
		AuthMW:    auth.NewMiddleware(authService, false),
		Enforcer:  enforcer,
		Audit:     auditLog,
		Checks:    map[string]Pinger{"database": fakePinger{}},
		Version:   "test",
		Now:       func() time.Time { return testToday },
	})
	ts.handler = NewRouter(h, nil).Setup()
	return ts
}

// waitForAudit polls until the asynchronous audit writer has stored n events.
func (ts *testServer) waitForAudit(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for ts.audit.Len() < n {
		if time.Now().After(deadline) {
			t.Fatalf("audit trail has %d events, want %d", ts.audit.Len(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

type envelope struct {
	Success bool             `json:"success"`
	Data    json.RawMessage  `json:"data"`
	Error   *models.APIError `json:"error"`
	Meta    models.Metadata  `json:"meta"`
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) login(t *testing.T, username string) string {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": username, "password": testPassword})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", username, rec.Code, rec.Body.String())
	}
	var resp loginResponse
	decodeData(t, rec, &resp)
	return resp.Token
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
	}
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) envelope {
	t.Helper()
	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatalf("unsuccessful response: %+v", env.Error)
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	return env
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env.Success || env.Error == nil || env.Error.Code != code {
		t.Errorf("error = %+v, want code %s", env.Error, code)
	}
}

var errBoom = errors.New("boom")

// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package ga4

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"google.golang.org/api/googleapi"

	"github.com/tomtom215/storelens/internal/config"
)

func testConfig(baseURL string) *config.AnalyticsConfig {
	return &config.AnalyticsConfig{
		PropertyID:        "378239992",
		BaseURL:           baseURL,
		Timeout:           5 * time.Second,
		RequestsPerSecond: 1000,
		Burst:             10,
		MaxRetries:        3,
		RetryBaseDelay:    time.Millisecond,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClientWithHTTP(context.Background(), srv.Client(), testConfig(srv.URL))
	if err != nil {
		t.Fatalf("NewClientWithHTTP() error = %v", err)
	}
	return client, srv
}

const channelsResponse = `{
  "dimensionHeaders": [{"name": "sessionDefaultChannelGroup"}],
  "metricHeaders": [{"name": "sessions", "type": "TYPE_INTEGER"}, {"name": "totalRevenue", "type": "TYPE_CURRENCY"}],
  "rows": [
    {"dimensionValues": [{"value": "Organic Search"}], "metricValues": [{"value": "120"}, {"value": "3400.5"}]},
    {"dimensionValues": [{"value": "Paid Search"}], "metricValues": [{"value": "80"}, {"value": "1200"}]}
  ],
  "rowCount": 2
}`

func TestRunReport(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		data, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(data, &gotBody); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, channelsResponse)
	})

	report, err := client.RunReport(context.Background(), &ReportRequest{
		DateRanges:      []DateRange{{StartDate: "2024-01-01", EndDate: "2024-01-07"}},
		Dimensions:      Dimensions("sessionDefaultChannelGroup"),
		Metrics:         Metrics("sessions", "totalRevenue"),
		DimensionFilter: CustomerFilter("loja_a"),
		Limit:           25,
	})
	if err != nil {
		t.Fatalf("RunReport() error = %v", err)
	}

	if gotPath != "/v1beta/properties/378239992:runReport" {
		t.Errorf("path = %s", gotPath)
	}
	filter, ok := gotBody["dimensionFilter"].(map[string]interface{})
	if !ok {
		t.Fatal("dimensionFilter missing from request body")
	}
	if f, _ := filter["filter"].(map[string]interface{}); f["fieldName"] != CustomerDimension {
		t.Errorf("dimensionFilter = %v", filter)
	}
	// The Data API encodes int64 fields as JSON strings.
	if gotBody["limit"] != "25" {
		t.Errorf("limit = %v, want 25", gotBody["limit"])
	}

	if len(report.Rows) != 2 || report.RowCount != 2 {
		t.Fatalf("rows = %d, rowCount = %d", len(report.Rows), report.RowCount)
	}
	if report.Rows[0].Dimension(0) != "Organic Search" || report.Rows[0].Metric(1) != "3400.5" {
		t.Errorf("row 0 = %+v", report.Rows[0])
	}
	if report.Rows[0].Metric(5) != "" || report.Rows[0].Dimension(-1) != "" {
		t.Error("out-of-range accessors should return empty strings")
	}
	if report.MetricHeaders[1].Type != "TYPE_CURRENCY" {
		t.Errorf("metric header = %+v", report.MetricHeaders[1])
	}
}

func TestRunReportRequestPropertyOverride(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = io.WriteString(w, `{}`)
	})
	_, err := client.RunReport(context.Background(), &ReportRequest{PropertyID: "42", Metrics: Metrics("sessions")})
	if err != nil {
		t.Fatal(err)
	}
	if gotPath != "/v1beta/properties/42:runReport" {
		t.Errorf("path = %s", gotPath)
	}
}

func TestRunReportEmptyRows(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"dimensionHeaders":[{"name":"date"}],"metricHeaders":[{"name":"sessions"}],"rowCount":0}`)
	})

	report, err := client.RunReport(context.Background(), &ReportRequest{Metrics: Metrics("sessions")})
	if err != nil {
		t.Fatalf("empty report should not error: %v", err)
	}
	if len(report.Rows) != 0 {
		t.Errorf("rows = %d, want 0", len(report.Rows))
	}
}

func TestRunReportAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error":{"code":403,"message":"User does not have sufficient permissions","status":"PERMISSION_DENIED"}}`)
	})

	_, err := client.RunReport(context.Background(), &ReportRequest{Metrics: Metrics("sessions")})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != 403 || apiErr.Status != "PERMISSION_DENIED" {
		t.Errorf("apiErr = %+v", apiErr)
	}
	if !strings.Contains(apiErr.Message, "sufficient permissions") {
		t.Errorf("message = %q", apiErr.Message)
	}
	if apiErr.Temporary() {
		t.Error("403 is not temporary")
	}
}

func TestRunReportNonJSONError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "upstream connect error")
	})

	_, err := client.RunReport(context.Background(), &ReportRequest{Metrics: Metrics("sessions")})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "upstream connect error" {
		t.Fatalf("error = %v", err)
	}
}

func TestRunReportRetriesThrottling(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		switch calls.Add(1) {
		case 1:
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
		case 2:
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			_, _ = io.WriteString(w, channelsResponse)
		}
	})

	report, err := client.RunReport(context.Background(), &ReportRequest{Metrics: Metrics("sessions")})
	if err != nil {
		t.Fatalf("RunReport() error = %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
	if len(report.Rows) != 2 {
		t.Errorf("rows = %d", len(report.Rows))
	}
}

func TestRunReportRetryBudget(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"code":429,"message":"Exhausted property tokens","status":"RESOURCE_EXHAUSTED"}}`)
	})

	_, err := client.RunReport(context.Background(), &ReportRequest{Metrics: Metrics("sessions")})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("error = %v, want 429 APIError", err)
	}
	if !apiErr.Temporary() {
		t.Error("429 should be temporary")
	}
	if calls.Load() != 4 {
		t.Errorf("calls = %d, want 1 + MaxRetries(3)", calls.Load())
	}
}

func TestRunReportCanceledDuringBackoff(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.RunReport(ctx, &ReportRequest{Metrics: Metrics("sessions")})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want deadline exceeded", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("backoff wait ignored cancellation")
	}
}

func TestBackoff(t *testing.T) {
	c := &Client{retryBaseDelay: time.Second}
	tests := []struct {
		attempt    int
		retryAfter string
		want       time.Duration
	}{
		{0, "", time.Second},
		{1, "", 2 * time.Second},
		{3, "", 8 * time.Second},
		{2, "7", 7 * time.Second},
		{2, "Wed, 21 Oct 2015 07:28:00 GMT", 4 * time.Second},
	}
	for _, tt := range tests {
		if got := c.backoff(tt.attempt, tt.retryAfter); got != tt.want {
			t.Errorf("backoff(%d, %q) = %v, want %v", tt.attempt, tt.retryAfter, got, tt.want)
		}
	}
}

func TestNewClientRequiresCredentials(t *testing.T) {
	cfg := testConfig("http://localhost")
	if _, err := NewClient(context.Background(), cfg); err == nil {
		t.Fatal("expected an error without credentials")
	}

	cfg.CredentialsJSON = `{"type":"service_account"`
	if _, err := NewClient(context.Background(), cfg); err == nil {
		t.Fatal("expected an error for malformed credentials")
	}
}

func TestAPIErrorFromGoogleError(t *testing.T) {
	tests := []struct {
		name       string
		in         *googleapi.Error
		wantStatus string
		wantMsg    string
	}{
		{
			name:       "rpc status from body",
			in:         &googleapi.Error{Code: 400, Message: "Field foo is not a valid dimension", Body: `{"error":{"code":400,"message":"Field foo is not a valid dimension","status":"INVALID_ARGUMENT"}}`},
			wantStatus: "INVALID_ARGUMENT",
			wantMsg:    "Field foo is not a valid dimension",
		},
		{
			name:    "plain body",
			in:      &googleapi.Error{Code: 502, Body: "bad gateway\n"},
			wantMsg: "bad gateway",
		},
		{
			name:    "empty body",
			in:      &googleapi.Error{Code: 503},
			wantMsg: http.StatusText(503),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := apiErrorFrom(tt.in)
			if got.StatusCode != tt.in.Code || got.Status != tt.wantStatus || got.Message != tt.wantMsg {
				t.Errorf("apiErrorFrom() = %+v", got)
			}
		})
	}
}

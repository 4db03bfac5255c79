// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package reports

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/storelens/internal/cache"
	"github.com/tomtom215/storelens/internal/ga4"
	"github.com/tomtom215/storelens/internal/models"
	"github.com/tomtom215/storelens/internal/period"
)

// fakeReporter answers by dimension list, plus "@event" for event-filtered
// requests, and records every request.
type fakeReporter struct {
	mu       sync.Mutex
	reports  map[string]*ga4.Report
	err      error
	requests []*ga4.ReportRequest
}

func (f *fakeReporter) RunReport(_ context.Context, req *ga4.ReportRequest) (*ga4.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	if r, ok := f.reports[requestKey(req)]; ok {
		return r, nil
	}
	return &ga4.Report{}, nil
}

func (f *fakeReporter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func requestKey(req *ga4.ReportRequest) string {
	names := make([]string, len(req.Dimensions))
	for i, d := range req.Dimensions {
		names[i] = d.Name
	}
	key := strings.Join(names, ",")
	if ev := eventOf(req.DimensionFilter); ev != "" {
		key += "@" + ev
	}
	return key
}

func eventOf(f *ga4.FilterExpression) string {
	if f == nil {
		return ""
	}
	if f.Filter != nil && f.Filter.FieldName == "eventName" {
		return f.Filter.StringFilter.Value
	}
	if f.AndGroup != nil {
		for _, e := range f.AndGroup.Expressions {
			if ev := eventOf(e); ev != "" {
				return ev
			}
		}
	}
	return ""
}

func customerOf(f *ga4.FilterExpression) string {
	if f == nil {
		return ""
	}
	if f.Filter != nil && f.Filter.FieldName == ga4.CustomerDimension {
		return f.Filter.StringFilter.Value
	}
	if f.AndGroup != nil {
		for _, e := range f.AndGroup.Expressions {
			if c := customerOf(e); c != "" {
				return c
			}
		}
	}
	return ""
}

func row(dims []string, mets ...string) ga4.Row {
	r := ga4.Row{}
	for _, d := range dims {
		r.DimensionValues = append(r.DimensionValues, ga4.Value{Value: d})
	}
	for _, m := range mets {
		r.MetricValues = append(r.MetricValues, ga4.Value{Value: m})
	}
	return r
}

func newTestService(t *testing.T, reports map[string]*ga4.Report) (*Service, *fakeReporter) {
	t.Helper()
	fake := &fakeReporter{reports: reports}
	return NewService(fake, cache.New(time.Hour), "378239992"), fake
}

func testQuery(t *testing.T) Query {
	t.Helper()
	rng, err := period.Parse("2024-01-08", "2024-01-14")
	if err != nil {
		t.Fatal(err)
	}
	return Query{Range: rng}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestKPIsMemoized(t *testing.T) {
	svc, fake := newTestService(t, map[string]*ga4.Report{
		"": {Rows: []ga4.Row{row(nil, "1500.5", "12", "0.031", "125.04")}},
	})
	ctx := context.Background()
	q := testQuery(t)

	got, err := svc.KPIs(ctx, q)
	if err != nil {
		t.Fatal(err)
	}
	want := models.KPISet{TotalRevenue: 1500.5, OrderCount: 12, ConversionRate: 0.031, AverageOrderValue: 125.04}
	if got != want {
		t.Errorf("KPIs() = %+v, want %+v", got, want)
	}

	req := fake.requests[0]
	if req.PropertyID != "378239992" || req.DateRanges[0].StartDate != "2024-01-08" || req.DateRanges[0].EndDate != "2024-01-14" {
		t.Errorf("request = %+v", req)
	}
	if len(req.Metrics) != 4 || req.Metrics[0].Name != "totalRevenue" || req.DimensionFilter != nil {
		t.Errorf("request metrics/filter = %+v / %+v", req.Metrics, req.DimensionFilter)
	}

	if _, err := svc.KPIs(ctx, q); err != nil {
		t.Fatal(err)
	}
	if fake.calls() != 1 {
		t.Errorf("calls = %d, second fetch should be cached", fake.calls())
	}

	if _, err := svc.KPIs(ctx, q.Previous()); err != nil {
		t.Fatal(err)
	}
	if fake.calls() != 2 {
		t.Errorf("calls = %d, previous period needs its own fetch", fake.calls())
	}
	if fake.requests[1].DateRanges[0].StartDate != "2024-01-01" {
		t.Errorf("previous start = %s", fake.requests[1].DateRanges[0].StartDate)
	}
}

func TestFetchErrorsPropagateUncached(t *testing.T) {
	svc, fake := newTestService(t, nil)
	fake.err = &ga4.APIError{StatusCode: 403, Status: "PERMISSION_DENIED", Message: "no access"}
	ctx := context.Background()
	q := testQuery(t)

	_, err := svc.Channels(ctx, q)
	var apiErr *ga4.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 403 {
		t.Fatalf("error = %v, want wrapped APIError", err)
	}
	if !strings.Contains(err.Error(), ReportChannels) {
		t.Errorf("error %q should name the report", err)
	}

	fake.err = nil
	channels, err := svc.Channels(ctx, q)
	if err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if len(channels) != 0 {
		t.Errorf("channels = %+v", channels)
	}
	if fake.calls() != 2 {
		t.Errorf("calls = %d, failures must not be cached", fake.calls())
	}
}

func TestCustomerFilterApplied(t *testing.T) {
	svc, fake := newTestService(t, nil)
	q := testQuery(t)
	q.Customer = "loja_a"
	q.PropertyID = "42"

	if _, err := svc.Pages(context.Background(), q); err != nil {
		t.Fatal(err)
	}
	req := fake.requests[0]
	if customerOf(req.DimensionFilter) != "loja_a" {
		t.Errorf("filter = %+v", req.DimensionFilter)
	}
	if req.PropertyID != "42" || req.Limit != limitPages {
		t.Errorf("request = %+v", req)
	}
}

func TestDailyRevenue(t *testing.T) {
	svc, _ := newTestService(t, map[string]*ga4.Report{
		"date": {Rows: []ga4.Row{
			row([]string{"20240110"}, "3", "300"),
			row([]string{"20240108"}, "1", "100.5"),
			row([]string{"20240110"}, "2", "50"),
			row([]string{"(other)"}, "9", "999"),
		}},
	})

	got, err := svc.DailyRevenue(context.Background(), testQuery(t))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("rows = %+v", got)
	}
	if got[0].Date.Format(period.DateLayout) != "2024-01-08" || got[0].Revenue != 100.5 {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1].Conversions != 5 || got[1].Revenue != 350 {
		t.Errorf("same-day rows not summed: %+v", got[1])
	}
}

func TestChannels(t *testing.T) {
	svc, _ := newTestService(t, map[string]*ga4.Report{
		"sessionDefaultChannelGroup": {Rows: []ga4.Row{
			row([]string{"Direct"}, "100", "2", "200"),
			row([]string{"Organic Search"}, "400", "10", "1500.25"),
			row([]string{""}, "0", "1", "5"),
		}},
	})

	got, err := svc.Channels(context.Background(), testQuery(t))
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Channel != "Organic Search" || !approx(got[0].ConversionRate, 2.5) {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1].Channel != "Direct" || !approx(got[1].ConversionRate, 2) {
		t.Errorf("got[1] = %+v", got[1])
	}
	if got[2].Channel != models.UndefinedValue || got[2].ConversionRate != 0 {
		t.Errorf("zero-session channel = %+v", got[2])
	}
}

func TestSourceMediumNumericDefaults(t *testing.T) {
	svc, _ := newTestService(t, map[string]*ga4.Report{
		"sessionSourceMedium": {Rows: []ga4.Row{
			row([]string{"google / cpc"}, "10", "1", "99.9", "0.1"),
			row([]string{"(direct) / (none)"}, "abc", "", "199.9"),
		}},
	})

	got, err := svc.SourceMedium(context.Background(), testQuery(t))
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Source != "(direct) / (none)" || got[0].Sessions != 0 || got[0].ConversionRate != 0 {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1].ConversionRate != 0.1 {
		t.Errorf("rate should pass through: %+v", got[1])
	}
}

func TestProductsAndCategories(t *testing.T) {
	svc, _ := newTestService(t, map[string]*ga4.Report{
		"itemName": {Rows: []ga4.Row{
			row([]string{"Caneca"}, "90", "3"),
			row([]string{"Camiseta"}, "500", "0"),
		}},
		"itemCategory": {Rows: []ga4.Row{
			row([]string{""}, "40", "2"),
			row([]string{"Vestuário"}, "600", "6"),
		}},
	})
	ctx := context.Background()

	products, err := svc.Products(ctx, testQuery(t))
	if err != nil {
		t.Fatal(err)
	}
	if products[0].Product != "Camiseta" || products[0].AverageTicket != 0 {
		t.Errorf("products[0] = %+v", products[0])
	}
	if products[1].AverageTicket != 30 {
		t.Errorf("products[1] = %+v", products[1])
	}

	categories, err := svc.Categories(ctx, testQuery(t))
	if err != nil {
		t.Fatal(err)
	}
	if categories[0].Category != "Vestuário" || categories[0].AverageTicket != 100 {
		t.Errorf("categories[0] = %+v", categories[0])
	}
	if categories[1].Category != models.UncategorizedItem {
		t.Errorf("empty category = %q, want %q", categories[1].Category, models.UncategorizedItem)
	}
}

func TestCartProductsFiltered(t *testing.T) {
	svc, fake := newTestService(t, map[string]*ga4.Report{
		"itemName@add_to_cart": {Rows: []ga4.Row{
			row([]string{"Caneca"}, "4"),
			row([]string{"Camiseta"}, "11"),
		}},
	})
	q := testQuery(t)
	q.Customer = "loja_b"

	got, err := svc.CartProducts(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Product != "Camiseta" || got[0].AddsToCart != 11 {
		t.Errorf("cart products = %+v", got)
	}
	f := fake.requests[0].DimensionFilter
	if f.AndGroup == nil || customerOf(f) != "loja_b" || eventOf(f) != "add_to_cart" {
		t.Errorf("filter = %+v", f)
	}
}

func TestDevicesTitleCase(t *testing.T) {
	svc, _ := newTestService(t, map[string]*ga4.Report{
		"deviceCategory": {Rows: []ga4.Row{
			row([]string{"desktop"}, "20"),
			row([]string{"mobile"}, "80"),
			row([]string{"smart tv"}, "1"),
		}},
	})

	got, err := svc.Devices(context.Background(), testQuery(t))
	if err != nil {
		t.Fatal(err)
	}
	want := []models.Device{
		{Category: "Mobile", Sessions: 80},
		{Category: "Desktop", Sessions: 20},
		{Category: "Smart Tv", Sessions: 1},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestRegionsPlaceholders(t *testing.T) {
	svc, _ := newTestService(t, map[string]*ga4.Report{
		"region,city": {Rows: []ga4.Row{
			row([]string{"", ""}, "5"),
			row([]string{"State of Sao Paulo", "Campinas"}, "50"),
		}},
	})

	got, err := svc.Regions(context.Background(), testQuery(t))
	if err != nil {
		t.Fatal(err)
	}
	if got[0].City != "Campinas" {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1].Region != models.UndefinedValue || got[1].City != models.UndefinedValue {
		t.Errorf("placeholders = %+v", got[1])
	}
}

func TestEngagementPercent(t *testing.T) {
	svc, _ := newTestService(t, map[string]*ga4.Report{
		"date": {Rows: []ga4.Row{
			row([]string{"20240109"}, "120", "100", "40", "300", "0.65"),
			row([]string{"20240108"}, "100", "90", "30", "250", "0.5"),
		}},
	})

	got, err := svc.Engagement(context.Background(), testQuery(t))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Sessions != 100 || !approx(got[0].EngagementRate, 50) {
		t.Fatalf("engagement = %+v", got)
	}
	if got[1].PageViews != 300 || !approx(got[1].EngagementRate, 65) {
		t.Errorf("got[1] = %+v", got[1])
	}
}

func TestFunnel(t *testing.T) {
	svc, _ := newTestService(t, map[string]*ga4.Report{
		"eventName": {Rows: []ga4.Row{
			row([]string{"foo"}, "5"),
			row([]string{"add_to_cart"}, "20"),
		}},
	})

	got, err := svc.Funnel(context.Background(), testQuery(t))
	if err != nil {
		t.Fatal(err)
	}
	if got != (models.Funnel{Cart: 20}) {
		t.Errorf("Funnel() = %+v", got)
	}
}

func TestAbandonment(t *testing.T) {
	svc, fake := newTestService(t, map[string]*ga4.Report{
		"eventName@add_to_cart":    {Rows: []ga4.Row{row([]string{"add_to_cart"}, "50")}},
		"eventName@begin_checkout": {Rows: []ga4.Row{row([]string{"begin_checkout"}, "60")}},
		"eventName@purchase":       {Rows: []ga4.Row{row([]string{"purchase"}, "15")}},
	})
	q := testQuery(t)
	q.Customer = "loja_a"

	got, err := svc.Abandonment(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}
	if got.AddToCart != 50 || got.BeginCheckout != 60 || got.Purchase != 15 {
		t.Errorf("counts = %+v", got)
	}
	if got.CartRate != 0 {
		t.Errorf("CartRate = %v, want 0 (clamped)", got.CartRate)
	}
	if !approx(got.CheckoutRate, 75) {
		t.Errorf("CheckoutRate = %v, want 75", got.CheckoutRate)
	}

	if fake.calls() != 3 {
		t.Fatalf("calls = %d, want one per event", fake.calls())
	}
	for _, req := range fake.requests {
		if customerOf(req.DimensionFilter) != "loja_a" {
			t.Errorf("event query missing customer filter: %+v", req.DimensionFilter)
		}
	}
}

func TestAbandonmentFailure(t *testing.T) {
	svc, fake := newTestService(t, nil)
	fake.err = errors.New("connection reset")

	if _, err := svc.Abandonment(context.Background(), testQuery(t)); err == nil {
		t.Fatal("expected error")
	}
}

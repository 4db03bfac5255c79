// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/storelens/internal/cache"
	"github.com/tomtom215/storelens/internal/ga4"
	"github.com/tomtom215/storelens/internal/logging"
	"github.com/tomtom215/storelens/internal/metrics"
	"github.com/tomtom215/storelens/internal/period"
)

// gaDateLayout is the format of the GA4 "date" dimension.
const gaDateLayout = "20060102"

// Report names, used as cache operations and metric labels.
const (
	ReportKPIs             = "kpis"
	ReportDailyRevenue     = "daily_revenue"
	ReportSourceMedium     = "source_medium"
	ReportChannels         = "channels"
	ReportEventCounts      = "event_counts"
	ReportProducts         = "products"
	ReportCategories       = "categories"
	ReportDevices          = "devices"
	ReportOperatingSystems = "operating_systems"
	ReportRegions          = "regions"
	ReportEngagement       = "engagement"
	ReportPages            = "pages"
	ReportCartProducts     = "cart_products"
	ReportAbandonment      = "abandonment"
)

// Row limits per report.
const (
	limitDaily        = 1000
	limitSourceMedium = 50
	limitChannels     = 25
	limitEvents       = 100
	limitProducts     = 50
	limitCategories   = 50
	limitTechnology   = 10
	limitRegions      = 500
	limitPages        = 25
	limitCartProducts = 100
)

// Query selects the property, date range and customer scope of a report.
// An empty PropertyID uses the service default; an empty Customer means all
// customers.
type Query struct {
	PropertyID string       `json:"property_id"`
	Range      period.Range `json:"range"`
	Customer   string       `json:"customer,omitempty"`
}

// Previous returns the same query over the preceding period.
func (q Query) Previous() Query {
	q.Range = q.Range.Previous()
	return q
}

// Service fetches and normalizes GA4 reports. Every fetch is memoized in the
// store, keyed by report name, property, dates and customer.
type Service struct {
	reporter        ga4.Reporter
	store           cache.Store
	defaultProperty string
}

// NewService creates a report service. defaultProperty fills queries that do
// not name a property.
func NewService(reporter ga4.Reporter, store cache.Store, defaultProperty string) *Service {
	return &Service{reporter: reporter, store: store, defaultProperty: defaultProperty}
}

func (s *Service) property(q Query) string {
	if q.PropertyID != "" {
		return q.PropertyID
	}
	return s.defaultProperty
}

func (s *Service) cacheArgs(q Query) []interface{} {
	return []interface{}{s.property(q), q.Range.StartDate(), q.Range.EndDate(), q.Customer}
}

// request builds a report request over q with the customer filter merged
// into extra.
func (s *Service) request(q Query, dims, mets []string, limit int64, extra *ga4.FilterExpression) *ga4.ReportRequest {
	return &ga4.ReportRequest{
		PropertyID:      s.property(q),
		DateRanges:      []ga4.DateRange{{StartDate: q.Range.StartDate(), EndDate: q.Range.EndDate()}},
		Dimensions:      ga4.Dimensions(dims...),
		Metrics:         ga4.Metrics(mets...),
		DimensionFilter: ga4.And(extra, ga4.CustomerFilter(q.Customer)),
		Limit:           limit,
	}
}

func (s *Service) run(ctx context.Context, req *ga4.ReportRequest) (*ga4.Report, error) {
	return s.reporter.RunReport(ctx, req)
}

// fetch memoizes one normalized report. Failures are recorded, wrapped with
// the report name and never cached.
func fetch[T any](ctx context.Context, s *Service, name string, q Query, fn func(context.Context) (T, error)) (T, error) {
	return cache.Memoize(ctx, s.store, name, s.cacheArgs(q), func(ctx context.Context) (T, error) {
		start := time.Now()
		result, err := fn(ctx)
		metrics.RecordReportFetch(name, err)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("report", name).Str("period", q.Range.String()).
				Msg("Report fetch failed")
			var zero T
			return zero, fmt.Errorf("fetch %s report: %w", name, err)
		}
		logging.Ctx(ctx).Debug().Str("report", name).Str("period", q.Range.String()).
			Dur("duration", time.Since(start)).Msg("Report fetched")
		return result, nil
	})
}

func dimensionOr(row ga4.Row, i int, placeholder string) string {
	if v := row.Dimension(i); v != "" {
		return v
	}
	return placeholder
}

func parseDate(v string) (time.Time, bool) {
	t, err := time.ParseInLocation(gaDateLayout, v, time.UTC)
	return t, err == nil
}

// sortDesc orders rows by key, highest first, keeping backend order for ties.
func sortDesc[T any, K int64 | float64](rows []T, key func(T) K) {
	sort.SliceStable(rows, func(i, j int) bool { return key(rows[i]) > key(rows[j]) })
}

// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package reports

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/storelens/internal/ga4"
	"github.com/tomtom215/storelens/internal/kpi"
	"github.com/tomtom215/storelens/internal/models"
)

// KPIs fetches the aggregate revenue, order, conversion and order value figures.
func (s *Service) KPIs(ctx context.Context, q Query) (models.KPISet, error) {
	return fetch(ctx, s, ReportKPIs, q, func(ctx context.Context) (models.KPISet, error) {
		report, err := s.run(ctx, s.request(q, nil, kpi.Metrics, 0, nil))
		if err != nil {
			return models.KPISet{}, err
		}
		return kpi.FromReport(report), nil
	})
}

// DailyRevenue fetches conversions and revenue per day, oldest first. Rows
// reported for the same day are summed; rows with an unreadable date are
// dropped.
func (s *Service) DailyRevenue(ctx context.Context, q Query) ([]models.DailyRevenue, error) {
	return fetch(ctx, s, ReportDailyRevenue, q, func(ctx context.Context) ([]models.DailyRevenue, error) {
		report, err := s.run(ctx, s.request(q, []string{"date"}, []string{"conversions", "totalRevenue"}, limitDaily, nil))
		if err != nil {
			return nil, err
		}

		index := make(map[string]int, len(report.Rows))
		out := make([]models.DailyRevenue, 0, len(report.Rows))
		for _, row := range report.Rows {
			day, ok := parseDate(row.Dimension(0))
			if !ok {
				continue
			}
			key := row.Dimension(0)
			if i, seen := index[key]; seen {
				out[i].Conversions += row.MetricInt(0)
				out[i].Revenue += row.MetricFloat(1)
				continue
			}
			index[key] = len(out)
			out = append(out, models.DailyRevenue{Date: day, Conversions: row.MetricInt(0), Revenue: row.MetricFloat(1)})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
		return out, nil
	})
}

// EventCounts fetches the raw count of every event name.
func (s *Service) EventCounts(ctx context.Context, q Query) ([]models.EventCount, error) {
	return fetch(ctx, s, ReportEventCounts, q, func(ctx context.Context) ([]models.EventCount, error) {
		report, err := s.run(ctx, s.request(q, []string{"eventName"}, []string{"eventCount"}, limitEvents, nil))
		if err != nil {
			return nil, err
		}
		out := make([]models.EventCount, 0, len(report.Rows))
		for _, row := range report.Rows {
			out = append(out, models.EventCount{Name: row.Dimension(0), Count: row.MetricInt(0)})
		}
		return out, nil
	})
}

// Funnel extracts the purchase funnel from the event counts.
func (s *Service) Funnel(ctx context.Context, q Query) (models.Funnel, error) {
	events, err := s.EventCounts(ctx, q)
	if err != nil {
		return models.Funnel{}, err
	}
	return kpi.ExtractFunnel(events), nil
}

// Abandonment counts add_to_cart, begin_checkout and purchase events with one
// filtered query each and derives the abandonment rates.
func (s *Service) Abandonment(ctx context.Context, q Query) (models.Abandonment, error) {
	return fetch(ctx, s, ReportAbandonment, q, func(ctx context.Context) (models.Abandonment, error) {
		events := []string{kpi.EventAddToCart, kpi.EventBeginCheckout, kpi.EventPurchase}
		counts := make([]int64, len(events))

		g, gctx := errgroup.WithContext(ctx)
		for i, name := range events {
			g.Go(func() error {
				n, err := s.eventTotal(gctx, q, name)
				counts[i] = n
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return models.Abandonment{}, err
		}
		return kpi.NewAbandonment(counts[0], counts[1], counts[2]), nil
	})
}

func (s *Service) eventTotal(ctx context.Context, q Query, event string) (int64, error) {
	report, err := s.run(ctx, s.request(q, []string{"eventName"}, []string{"eventCount"}, 0, ga4.EventFilter(event)))
	if err != nil {
		return 0, err
	}
	var total int64
	for _, row := range report.Rows {
		total += row.MetricInt(0)
	}
	return total, nil
}

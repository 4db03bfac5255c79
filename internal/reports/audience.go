// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package reports

import (
	"context"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tomtom215/storelens/internal/models"
)

// Devices fetches sessions per device category, most sessions first.
// Categories are title-cased ("mobile" becomes "Mobile").
func (s *Service) Devices(ctx context.Context, q Query) ([]models.Device, error) {
	return fetch(ctx, s, ReportDevices, q, func(ctx context.Context) ([]models.Device, error) {
		report, err := s.run(ctx, s.request(q, []string{"deviceCategory"}, []string{"sessions"}, limitTechnology, nil))
		if err != nil {
			return nil, err
		}

		title := cases.Title(language.BrazilianPortuguese)
		out := make([]models.Device, 0, len(report.Rows))
		for _, row := range report.Rows {
			out = append(out, models.Device{
				Category: title.String(dimensionOr(row, 0, models.UndefinedValue)),
				Sessions: row.MetricInt(0),
			})
		}
		sortDesc(out, func(r models.Device) int64 { return r.Sessions })
		return out, nil
	})
}

// OperatingSystems fetches sessions per operating system, most sessions first.
func (s *Service) OperatingSystems(ctx context.Context, q Query) ([]models.OperatingSystem, error) {
	return fetch(ctx, s, ReportOperatingSystems, q, func(ctx context.Context) ([]models.OperatingSystem, error) {
		report, err := s.run(ctx, s.request(q, []string{"operatingSystem"}, []string{"sessions"}, limitTechnology, nil))
		if err != nil {
			return nil, err
		}

		out := make([]models.OperatingSystem, 0, len(report.Rows))
		for _, row := range report.Rows {
			out = append(out, models.OperatingSystem{
				System:   dimensionOr(row, 0, models.UndefinedValue),
				Sessions: row.MetricInt(0),
			})
		}
		sortDesc(out, func(r models.OperatingSystem) int64 { return r.Sessions })
		return out, nil
	})
}

// Regions fetches sessions per region and city, most sessions first.
func (s *Service) Regions(ctx context.Context, q Query) ([]models.Region, error) {
	return fetch(ctx, s, ReportRegions, q, func(ctx context.Context) ([]models.Region, error) {
		report, err := s.run(ctx, s.request(q, []string{"region", "city"}, []string{"sessions"}, limitRegions, nil))
		if err != nil {
			return nil, err
		}

		out := make([]models.Region, 0, len(report.Rows))
		for _, row := range report.Rows {
			out = append(out, models.Region{
				Region:   dimensionOr(row, 0, models.UndefinedValue),
				City:     dimensionOr(row, 1, models.UndefinedValue),
				Sessions: row.MetricInt(0),
			})
		}
		sortDesc(out, func(r models.Region) int64 { return r.Sessions })
		return out, nil
	})
}

// Engagement fetches daily traffic and engagement, oldest first. The
// engagement rate is converted to a percentage.
func (s *Service) Engagement(ctx context.Context, q Query) ([]models.EngagementDay, error) {
	return fetch(ctx, s, ReportEngagement, q, func(ctx context.Context) ([]models.EngagementDay, error) {
		report, err := s.run(ctx, s.request(q,
			[]string{"date"},
			[]string{"sessions", "totalUsers", "newUsers", "screenPageViews", "engagementRate"},
			limitDaily, nil))
		if err != nil {
			return nil, err
		}

		out := make([]models.EngagementDay, 0, len(report.Rows))
		for _, row := range report.Rows {
			day, ok := parseDate(row.Dimension(0))
			if !ok {
				continue
			}
			out = append(out, models.EngagementDay{
				Date:           day,
				Sessions:       row.MetricInt(0),
				TotalUsers:     row.MetricInt(1),
				NewUsers:       row.MetricInt(2),
				PageViews:      row.MetricInt(3),
				EngagementRate: row.MetricFloat(4) * 100,
			})
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
		return out, nil
	})
}

// Pages fetches traffic per page path, most viewed first.
func (s *Service) Pages(ctx context.Context, q Query) ([]models.Page, error) {
	return fetch(ctx, s, ReportPages, q, func(ctx context.Context) ([]models.Page, error) {
		report, err := s.run(ctx, s.request(q,
			[]string{"pagePath"},
			[]string{"screenPageViews", "sessions", "engagementRate"},
			limitPages, nil))
		if err != nil {
			return nil, err
		}

		out := make([]models.Page, 0, len(report.Rows))
		for _, row := range report.Rows {
			out = append(out, models.Page{
				Path:           dimensionOr(row, 0, models.UndefinedValue),
				Views:          row.MetricInt(0),
				Sessions:       row.MetricInt(1),
				EngagementRate: row.MetricFloat(2) * 100,
			})
		}
		sortDesc(out, func(r models.Page) int64 { return r.Views })
		return out, nil
	})
}

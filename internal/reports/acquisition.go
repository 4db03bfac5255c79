// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package reports

import (
	"context"

	"github.com/tomtom215/storelens/internal/kpi"
	"github.com/tomtom215/storelens/internal/models"
)

// SourceMedium fetches acquisition by session source / medium, highest
// revenue first.
func (s *Service) SourceMedium(ctx context.Context, q Query) ([]models.SourceMedium, error) {
	return fetch(ctx, s, ReportSourceMedium, q, func(ctx context.Context) ([]models.SourceMedium, error) {
		report, err := s.run(ctx, s.request(q,
			[]string{"sessionSourceMedium"},
			[]string{"sessions", "conversions", "totalRevenue", "sessionConversionRate"},
			limitSourceMedium, nil))
		if err != nil {
			return nil, err
		}

		out := make([]models.SourceMedium, 0, len(report.Rows))
		for _, row := range report.Rows {
			out = append(out, models.SourceMedium{
				Source:         dimensionOr(row, 0, models.UndefinedValue),
				Sessions:       row.MetricInt(0),
				Conversions:    row.MetricInt(1),
				Revenue:        row.MetricFloat(2),
				ConversionRate: row.MetricFloat(3),
			})
		}
		sortDesc(out, func(r models.SourceMedium) float64 { return r.Revenue })
		return out, nil
	})
}

// Channels fetches acquisition by default channel group, highest revenue
// first. The conversion rate is recomputed per channel as a percentage.
func (s *Service) Channels(ctx context.Context, q Query) ([]models.Channel, error) {
	return fetch(ctx, s, ReportChannels, q, func(ctx context.Context) ([]models.Channel, error) {
		report, err := s.run(ctx, s.request(q,
			[]string{"sessionDefaultChannelGroup"},
			[]string{"sessions", "conversions", "totalRevenue"},
			limitChannels, nil))
		if err != nil {
			return nil, err
		}

		out := make([]models.Channel, 0, len(report.Rows))
		for _, row := range report.Rows {
			sessions, conversions := row.MetricInt(0), row.MetricInt(1)
			out = append(out, models.Channel{
				Channel:        dimensionOr(row, 0, models.UndefinedValue),
				Sessions:       sessions,
				Conversions:    conversions,
				Revenue:        row.MetricFloat(2),
				ConversionRate: kpi.ConversionRate(conversions, sessions),
			})
		}
		sortDesc(out, func(r models.Channel) float64 { return r.Revenue })
		return out, nil
	})
}

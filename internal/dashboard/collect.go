// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package dashboard

import (
	"context"

	"github.com/samber/lo"

	"github.com/tomtom215/storelens/internal/diagnostic"
	"github.com/tomtom215/storelens/internal/kpi"
	"github.com/tomtom215/storelens/internal/models"
	"github.com/tomtom215/storelens/internal/reports"
)

// Collect gathers the full diagnostic bundle for one period.
func (s *Service) Collect(ctx context.Context, q reports.Query) (*diagnostic.Data, error) {
	var (
		d       diagnostic.Data
		devices []models.Device
		regions []models.Region
		days    []models.EngagementDay
	)
	f := newFetcher(ctx)
	into(f, &d.KPIs, s.src.KPIs, q)
	into(f, &d.Funnel, s.src.Funnel, q)
	into(f, &d.Products, s.src.Products, q)
	into(f, &d.Categories, s.src.Categories, q)
	into(f, &devices, s.src.Devices, q)
	into(f, &regions, s.src.Regions, q)
	into(f, &days, s.src.Engagement, q)
	into(f, &d.Pages, s.src.Pages, q)
	into(f, &d.Channels, s.src.Channels, q)
	into(f, &d.Abandonment, s.src.Abandonment, q)
	if err := f.wait(); err != nil {
		return nil, err
	}

	d.Period = q.Range.String()
	d.Highlights = highlights(d.Channels, d.Products, regions)

	d.TopDevice = diagnostic.Unavailable
	if len(devices) > 0 {
		d.TopDevice = lo.MaxBy(devices, func(a, b models.Device) bool { return a.Sessions > b.Sessions }).Category
	}
	d.TopCity = diagnostic.Unavailable
	if len(regions) > 0 {
		d.TopCity = lo.MaxBy(regions, func(a, b models.Region) bool { return a.Sessions > b.Sessions }).City
	}

	if len(days) > 0 {
		d.EngagementRate = days[len(days)-1].EngagementRate
		d.TotalSessions = lo.SumBy(days, func(day models.EngagementDay) int64 { return day.Sessions })
	}
	d.TopPages = lo.Map(head(d.Pages, topPages), func(p models.Page, _ int) string { return p.Path })

	if len(d.Products) > 0 {
		best := lo.MaxBy(d.Products, func(a, b models.Product) bool { return a.Revenue > b.Revenue })
		d.StrongestProduct = &best
	}
	d.NegativeTrend = kpi.LowConversion(d.KPIs)
	return &d, nil
}

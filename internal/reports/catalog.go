// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package reports

import (
	"context"

	"github.com/tomtom215/storelens/internal/ga4"
	"github.com/tomtom215/storelens/internal/kpi"
	"github.com/tomtom215/storelens/internal/models"
)

var itemMetrics = []string{"itemRevenue", "itemsPurchased"}

// Products fetches item sales, highest revenue first.
func (s *Service) Products(ctx context.Context, q Query) ([]models.Product, error) {
	return fetch(ctx, s, ReportProducts, q, func(ctx context.Context) ([]models.Product, error) {
		report, err := s.run(ctx, s.request(q, []string{"itemName"}, itemMetrics, limitProducts, nil))
		if err != nil {
			return nil, err
		}

		out := make([]models.Product, 0, len(report.Rows))
		for _, row := range report.Rows {
			revenue, qty := row.MetricFloat(0), row.MetricInt(1)
			out = append(out, models.Product{
				Product:       dimensionOr(row, 0, models.UndefinedValue),
				Quantity:      qty,
				Revenue:       revenue,
				AverageTicket: kpi.AverageOrderValue(revenue, qty),
			})
		}
		sortDesc(out, func(r models.Product) float64 { return r.Revenue })
		return out, nil
	})
}

// Categories fetches sales by item category, highest revenue first.
func (s *Service) Categories(ctx context.Context, q Query) ([]models.Category, error) {
	return fetch(ctx, s, ReportCategories, q, func(ctx context.Context) ([]models.Category, error) {
		report, err := s.run(ctx, s.request(q, []string{"itemCategory"}, itemMetrics, limitCategories, nil))
		if err != nil {
			return nil, err
		}

		out := make([]models.Category, 0, len(report.Rows))
		for _, row := range report.Rows {
			revenue, qty := row.MetricFloat(0), row.MetricInt(1)
			out = append(out, models.Category{
				Category:      dimensionOr(row, 0, models.UncategorizedItem),
				Quantity:      qty,
				Revenue:       revenue,
				AverageTicket: kpi.AverageOrderValue(revenue, qty),
			})
		}
		sortDesc(out, func(r models.Category) float64 { return r.Revenue })
		return out, nil
	})
}

// CartProducts fetches items added to the cart, most added first.
func (s *Service) CartProducts(ctx context.Context, q Query) ([]models.CartProduct, error) {
	return fetch(ctx, s, ReportCartProducts, q, func(ctx context.Context) ([]models.CartProduct, error) {
		report, err := s.run(ctx, s.request(q,
			[]string{"itemName"},
			[]string{"itemsAddedToCart"},
			limitCartProducts, ga4.EventFilter(kpi.EventAddToCart)))
		if err != nil {
			return nil, err
		}

		out := make([]models.CartProduct, 0, len(report.Rows))
		for _, row := range report.Rows {
			out = append(out, models.CartProduct{
				Product:    dimensionOr(row, 0, models.UndefinedValue),
				AddsToCart: row.MetricInt(0),
			})
		}
		sortDesc(out, func(r models.CartProduct) int64 { return r.AddsToCart })
		return out, nil
	})
}

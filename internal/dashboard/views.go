// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package dashboard

import (
	"context"
	"sort"

	"github.com/tomtom215/storelens/internal/compare"
	"github.com/tomtom215/storelens/internal/kpi"
	"github.com/tomtom215/storelens/internal/models"
	"github.com/tomtom215/storelens/internal/reports"
)

// Summary is the executive summary view.
type Summary struct {
	KPIs         models.KPISet       `json:"kpis"`
	PreviousKPIs models.KPISet       `json:"previous_kpis"`
	Variance     compare.KPIVariance `json:"variance"`
	Highlights   models.Highlights   `json:"highlights"`
}

// Summary fetches current and previous KPIs plus the highlight tables.
func (s *Service) Summary(ctx context.Context, q reports.Query) (*Summary, error) {
	var (
		v        Summary
		channels []models.Channel
		products []models.Product
		regions  []models.Region
	)
	f := newFetcher(ctx)
	into(f, &v.KPIs, s.src.KPIs, q)
	into(f, &v.PreviousKPIs, s.src.KPIs, q.Previous())
	into(f, &channels, s.src.Channels, q)
	into(f, &products, s.src.Products, q)
	into(f, &regions, s.src.Regions, q)
	if err := f.wait(); err != nil {
		return nil, err
	}

	v.Variance = compare.KPIs(v.KPIs, v.PreviousKPIs)
	v.Highlights = highlights(channels, products, regions)
	return &v, nil
}

// highlights takes the first row of each ranked table.
func highlights(channels []models.Channel, products []models.Product, regions []models.Region) models.Highlights {
	h := models.Highlights{
		TopChannel: models.NotAvailable,
		TopProduct: models.NotAvailable,
		TopRegion:  models.NotAvailable,
	}
	if len(channels) > 0 {
		h.TopChannel = channels[0].Channel
	}
	if len(products) > 0 {
		h.TopProduct = products[0].Product
	}
	if len(regions) > 0 {
		h.TopRegion = regions[0].City
	}
	return h
}

// Sales is the sales and revenue view.
type Sales struct {
	KPIs         models.KPISet         `json:"kpis"`
	PreviousKPIs models.KPISet         `json:"previous_kpis"`
	Variance     compare.KPIVariance   `json:"variance"`
	Funnel       models.Funnel         `json:"funnel"`
	DailyRevenue []models.DailyRevenue `json:"daily_revenue"`
}

// Sales fetches KPIs with variances, the funnel and daily revenue.
func (s *Service) Sales(ctx context.Context, q reports.Query) (*Sales, error) {
	var v Sales
	f := newFetcher(ctx)
	into(f, &v.KPIs, s.src.KPIs, q)
	into(f, &v.PreviousKPIs, s.src.KPIs, q.Previous())
	into(f, &v.Funnel, s.src.Funnel, q)
	into(f, &v.DailyRevenue, s.src.DailyRevenue, q)
	if err := f.wait(); err != nil {
		return nil, err
	}

	v.Variance = compare.KPIs(v.KPIs, v.PreviousKPIs)
	return &v, nil
}

// Products is the product and category view.
type Products struct {
	Overview   []models.ProductOverview `json:"overview"`
	Totals     kpi.ProductTotals        `json:"totals"`
	Categories []models.Category        `json:"categories"`
}

// Products merges sold and cart-added products with their revenue variance
// against the previous period.
func (s *Service) Products(ctx context.Context, q reports.Query) (*Products, error) {
	var (
		v        Products
		sold     []models.Product
		previous []models.Product
		cart     []models.CartProduct
	)
	f := newFetcher(ctx)
	into(f, &sold, s.src.Products, q)
	into(f, &previous, s.src.Products, q.Previous())
	into(f, &cart, s.src.CartProducts, q)
	into(f, &v.Categories, s.src.Categories, q)
	if err := f.wait(); err != nil {
		return nil, err
	}

	v.Overview = mergeProducts(sold, previous, cart)
	v.Totals = kpi.TotalProducts(v.Overview)
	return &v, nil
}

// mergeProducts outer-joins sold and cart products by name, highest revenue
// first with ties by name. Products without a defined revenue variance read
// compare.Undefined.
func mergeProducts(sold, previous []models.Product, cart []models.CartProduct) []models.ProductOverview {
	byName := make(map[string]*models.ProductOverview)
	get := func(name string) *models.ProductOverview {
		if p, ok := byName[name]; ok {
			return p
		}
		p := &models.ProductOverview{Product: name, RevenueVariance: compare.Undefined}
		byName[name] = p
		return p
	}

	for _, c := range cart {
		get(c.Product).AddsToCart += c.AddsToCart
	}
	for _, p := range sold {
		o := get(p.Product)
		o.Purchased += p.Quantity
		o.Revenue += p.Revenue
	}
	if variances, ok := compare.ProductRevenue(sold, previous); ok {
		for _, pv := range variances {
			byName[pv.Product].RevenueVariance = pv.Revenue.String()
		}
	}

	out := make([]models.ProductOverview, 0, len(byName))
	for _, p := range byName {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Product < out[j].Product
	})
	return out
}

// Channels is the acquisition channel view. Comparison is nil when either
// period has no channel data.
type Channels struct {
	Channels     []models.Channel            `json:"channels"`
	Comparison   []compare.ChannelComparison `json:"comparison,omitempty"`
	Compared     bool                        `json:"compared"`
	Groups       []kpi.ChannelGroup          `json:"groups"`
	SourceMedium []models.SourceMedium       `json:"source_medium"`
}

// Channels fetches both periods of channel data and the source/medium table.
func (s *Service) Channels(ctx context.Context, q reports.Query) (*Channels, error) {
	var (
		v        Channels
		previous []models.Channel
	)
	f := newFetcher(ctx)
	into(f, &v.Channels, s.src.Channels, q)
	into(f, &previous, s.src.Channels, q.Previous())
	into(f, &v.SourceMedium, s.src.SourceMedium, q)
	if err := f.wait(); err != nil {
		return nil, err
	}

	v.Comparison, v.Compared = compare.Channels(v.Channels, previous)
	v.Groups = kpi.GroupPaidOrganic(v.Channels)
	return &v, nil
}

// Engagement is the regions and engagement view. Latest is nil with fewer
// than two days of data.
type Engagement struct {
	TopRegions       []models.Region           `json:"top_regions"`
	RegionTotals     []kpi.RegionTotal         `json:"region_totals"`
	Days             []models.EngagementDay    `json:"days"`
	Latest           *compare.EngagementChange `json:"latest,omitempty"`
	Weekdays         []kpi.WeekdayAverage      `json:"weekdays"`
	Devices          []models.Device           `json:"devices"`
	OperatingSystems []models.OperatingSystem  `json:"operating_systems"`
}

// Engagement fetches regions, daily engagement and technology tables.
func (s *Service) Engagement(ctx context.Context, q reports.Query) (*Engagement, error) {
	var (
		v       Engagement
		regions []models.Region
	)
	f := newFetcher(ctx)
	into(f, &regions, s.src.Regions, q)
	into(f, &v.Days, s.src.Engagement, q)
	into(f, &v.Devices, s.src.Devices, q)
	into(f, &v.OperatingSystems, s.src.OperatingSystems, q)
	if err := f.wait(); err != nil {
		return nil, err
	}

	v.TopRegions = head(regions, topRegions)
	v.RegionTotals = kpi.RegionTotals(regions)
	if change, ok := compare.LatestDay(v.Days); ok {
		v.Latest = &change
	}
	v.Weekdays = kpi.WeekdayAverages(v.Days)
	return &v, nil
}

// Pages is the pages and cart view.
type Pages struct {
	Pages        []models.Page        `json:"pages"`
	Abandonment  models.Abandonment   `json:"abandonment"`
	CartProducts []models.CartProduct `json:"cart_products"`
}

// Pages fetches page traffic, the abandonment funnel and the most added
// cart products.
func (s *Service) Pages(ctx context.Context, q reports.Query) (*Pages, error) {
	var v Pages
	var cart []models.CartProduct
	f := newFetcher(ctx)
	into(f, &v.Pages, s.src.Pages, q)
	into(f, &v.Abandonment, s.src.Abandonment, q)
	into(f, &cart, s.src.CartProducts, q)
	if err := f.wait(); err != nil {
		return nil, err
	}

	v.CartProducts = head(cart, topCartProducts)
	return &v, nil
}

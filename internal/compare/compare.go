// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

// Package compare computes period-over-period variances.
//
// A variance is only defined when the previous value is non-zero; otherwise
// it renders as "n/d". Table comparisons are skipped (ok == false) unless
// both periods have rows, and rows are matched by key with a left join on
// the current period.
package compare

import (
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/tomtom215/storelens/internal/models"
)

// Undefined is the rendering of a variance against a zero baseline.
const Undefined = "n/d"

// Record is one current-versus-previous comparison. Percent is meaningful
// only when Defined is true. Label is String() precomputed for JSON clients.
type Record struct {
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
	Percent  float64 `json:"percent"`
	Defined  bool    `json:"defined"`
	Label    string  `json:"label"`
}

// Variance returns the signed percentage change from previous to current.
func Variance(current, previous float64) Record {
	r := Record{Current: current, Previous: previous}
	if previous != 0 {
		r.Percent = (current - previous) / previous * 100
		r.Defined = true
	}
	r.Label = r.String()
	return r
}

// String formats the percentage with two decimals, or Undefined.
func (r Record) String() string {
	if !r.Defined {
		return Undefined
	}
	return fmt.Sprintf("%.2f%%", r.Percent)
}

// KPIVariance compares two KPI sets.
type KPIVariance struct {
	Revenue           Record `json:"revenue"`
	Orders            Record `json:"orders"`
	ConversionRate    Record `json:"conversion_rate"`
	AverageOrderValue Record `json:"average_order_value"`
}

// KPIs compares every headline figure.
func KPIs(cur, prev models.KPISet) KPIVariance {
	return KPIVariance{
		Revenue:           Variance(cur.TotalRevenue, prev.TotalRevenue),
		Orders:            Variance(float64(cur.OrderCount), float64(prev.OrderCount)),
		ConversionRate:    Variance(cur.ConversionRate, prev.ConversionRate),
		AverageOrderValue: Variance(cur.AverageOrderValue, prev.AverageOrderValue),
	}
}

// ChannelComparison is one channel of the current period against the same
// channel in the previous one.
type ChannelComparison struct {
	Channel        string `json:"channel"`
	Sessions       Record `json:"sessions"`
	Conversions    Record `json:"conversions"`
	Revenue        Record `json:"revenue"`
	ConversionRate Record `json:"conversion_rate"`
}

// Channels compares channel tables in current order. Channels missing from
// the previous period compare against zeros.
func Channels(cur, prev []models.Channel) ([]ChannelComparison, bool) {
	if len(cur) == 0 || len(prev) == 0 {
		return nil, false
	}
	before := lo.KeyBy(prev, func(c models.Channel) string { return c.Channel })

	out := make([]ChannelComparison, 0, len(cur))
	for _, c := range cur {
		p := before[c.Channel]
		out = append(out, ChannelComparison{
			Channel:        c.Channel,
			Sessions:       Variance(float64(c.Sessions), float64(p.Sessions)),
			Conversions:    Variance(float64(c.Conversions), float64(p.Conversions)),
			Revenue:        Variance(c.Revenue, p.Revenue),
			ConversionRate: Variance(c.ConversionRate, p.ConversionRate),
		})
	}
	return out, true
}

// ProductVariance is a product's revenue change.
type ProductVariance struct {
	Product string `json:"product"`
	Revenue Record `json:"revenue"`
}

// ProductRevenue compares product revenue in current order. Products missing
// from the previous period compare against zero.
func ProductRevenue(cur, prev []models.Product) ([]ProductVariance, bool) {
	if len(cur) == 0 || len(prev) == 0 {
		return nil, false
	}
	before := lo.KeyBy(prev, func(p models.Product) string { return p.Product })

	out := make([]ProductVariance, 0, len(cur))
	for _, p := range cur {
		out = append(out, ProductVariance{
			Product: p.Product,
			Revenue: Variance(p.Revenue, before[p.Product].Revenue),
		})
	}
	return out, true
}

// EngagementChange compares the last day of an engagement series with the
// day before it.
type EngagementChange struct {
	Date           time.Time `json:"date"`
	Sessions       Record    `json:"sessions"`
	TotalUsers     Record    `json:"total_users"`
	NewUsers       Record    `json:"new_users"`
	PageViews      Record    `json:"page_views"`
	EngagementRate Record    `json:"engagement_rate"`
}

// LatestDay compares the two most recent days of a date-ascending series.
// It needs at least two days.
func LatestDay(days []models.EngagementDay) (EngagementChange, bool) {
	if len(days) < 2 {
		return EngagementChange{}, false
	}
	last, before := days[len(days)-1], days[len(days)-2]
	return EngagementChange{
		Date:           last.Date,
		Sessions:       Variance(float64(last.Sessions), float64(before.Sessions)),
		TotalUsers:     Variance(float64(last.TotalUsers), float64(before.TotalUsers)),
		NewUsers:       Variance(float64(last.NewUsers), float64(before.NewUsers)),
		PageViews:      Variance(float64(last.PageViews), float64(before.PageViews)),
		EngagementRate: Variance(last.EngagementRate, before.EngagementRate),
	}, true
}

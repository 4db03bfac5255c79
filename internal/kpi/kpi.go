// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

// Package kpi derives headline figures from normalized report data: the KPI
// set, funnel and abandonment rates, and the secondary aggregates shown
// alongside them. Every ratio returns 0 instead of dividing by zero.
package kpi

import (
	"github.com/tomtom215/storelens/internal/ga4"
	"github.com/tomtom215/storelens/internal/models"
)

// Metrics requested for the KPI report, in FromReport's column order.
var Metrics = []string{"totalRevenue", "conversions", "sessionConversionRate", "averagePurchaseRevenue"}

// LowConversionThreshold is the conversion ratio below which LowConversion fires.
const LowConversionThreshold = 0.005

// LowConversionTrend is the negative-trend message for a weak conversion rate.
const LowConversionTrend = "Conversão abaixo de 0.5%"

// FromReport reads the single aggregate row of a KPI report. Values are
// passed through as returned; a report without rows yields the zero KPISet.
func FromReport(report *ga4.Report) models.KPISet {
	if report == nil || len(report.Rows) == 0 {
		return models.KPISet{}
	}
	row := report.Rows[0]
	return models.KPISet{
		TotalRevenue:      row.MetricFloat(0),
		OrderCount:        row.MetricInt(1),
		ConversionRate:    row.MetricFloat(2),
		AverageOrderValue: row.MetricFloat(3),
	}
}

// ConversionRate returns conversions per session as a percentage.
func ConversionRate(conversions, sessions int64) float64 {
	if sessions <= 0 {
		return 0
	}
	return float64(conversions) / float64(sessions) * 100
}

// AverageOrderValue returns revenue per order.
func AverageOrderValue(revenue float64, orders int64) float64 {
	if orders <= 0 {
		return 0
	}
	return revenue / float64(orders)
}

// LowConversion returns LowConversionTrend when the conversion ratio is
// below LowConversionThreshold, and "" otherwise.
func LowConversion(k models.KPISet) string {
	if k.ConversionRate < LowConversionThreshold {
		return LowConversionTrend
	}
	return ""
}

// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

/*
Package ga4 wraps the Google Analytics 4 Data API (v1beta runReport, through
google.golang.org/api/analyticsdata) with pacing, throttling retries and a
circuit breaker. The client authenticates with a service account.

	client, err := ga4.NewClient(ctx, &cfg.Analytics)
	reporter := ga4.NewCircuitBreakerClient(client, ga4.BreakerSettings{})

	report, err := reporter.RunReport(ctx, &ga4.ReportRequest{
	    DateRanges:      []ga4.DateRange{{StartDate: "2024-01-01", EndDate: "2024-01-07"}},
	    Dimensions:      ga4.Dimensions("sessionDefaultChannelGroup"),
	    Metrics:         ga4.Metrics("sessions", "conversions", "totalRevenue"),
	    DimensionFilter: ga4.CustomerFilter("loja_a"),
	    Limit:           25,
	})

Values arrive as strings. Row.MetricInt and Row.MetricFloat parse them,
returning 0 for absent or unparsable cells.
*/
package ga4

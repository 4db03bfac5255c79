// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package ga4

import (
	"strconv"

	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
)

// ReportRequest describes one runReport query. PropertyID selects the
// property resource and is not part of the request body.
type ReportRequest struct {
	PropertyID      string            `json:"-"`
	DateRanges      []DateRange       `json:"dateRanges"`
	Dimensions      []Dimension       `json:"dimensions,omitempty"`
	Metrics         []Metric          `json:"metrics"`
	DimensionFilter *FilterExpression `json:"dimensionFilter,omitempty"`
	Limit           int64             `json:"limit,omitempty"`
}

// DateRange is an inclusive YYYY-MM-DD range.
type DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Dimension names a report dimension, e.g. "sessionDefaultChannelGroup".
type Dimension struct {
	Name string `json:"name"`
}

// Metric names a report metric, e.g. "totalRevenue".
type Metric struct {
	Name string `json:"name"`
}

// Dimensions builds a dimension list from names.
func Dimensions(names ...string) []Dimension {
	out := make([]Dimension, len(names))
	for i, n := range names {
		out[i] = Dimension{Name: n}
	}
	return out
}

// Metrics builds a metric list from names.
func Metrics(names ...string) []Metric {
	out := make([]Metric, len(names))
	for i, n := range names {
		out[i] = Metric{Name: n}
	}
	return out
}

// FilterExpression is either a single Filter or an AND group.
type FilterExpression struct {
	AndGroup *FilterExpressionList `json:"andGroup,omitempty"`
	Filter   *Filter               `json:"filter,omitempty"`
}

// FilterExpressionList holds the members of an AND group.
type FilterExpressionList struct {
	Expressions []*FilterExpression `json:"expressions"`
}

// Filter matches one dimension.
type Filter struct {
	FieldName    string        `json:"fieldName"`
	StringFilter *StringFilter `json:"stringFilter,omitempty"`
}

// StringFilter compares a dimension value with Value.
type StringFilter struct {
	MatchType     string `json:"matchType,omitempty"`
	Value         string `json:"value"`
	CaseSensitive bool   `json:"caseSensitive,omitempty"`
}

// Report is a runReport response. Rows is empty, not an error, when no data
// matches.
type Report struct {
	DimensionHeaders []Header `json:"dimensionHeaders"`
	MetricHeaders    []Header `json:"metricHeaders"`
	Rows             []Row    `json:"rows"`
	RowCount         int      `json:"rowCount"`
}

// Header describes a column. Type is only set for metrics (TYPE_INTEGER, TYPE_CURRENCY, ...).
type Header struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// Row holds dimension and metric values in request order.
type Row struct {
	DimensionValues []Value `json:"dimensionValues"`
	MetricValues    []Value `json:"metricValues"`
}

// Value is a single cell, always transported as a string.
type Value struct {
	Value string `json:"value"`
}

// Dimension returns the i-th dimension value, or "" when absent.
func (r Row) Dimension(i int) string {
	if i < 0 || i >= len(r.DimensionValues) {
		return ""
	}
	return r.DimensionValues[i].Value
}

// Metric returns the i-th metric value, or "" when absent.
func (r Row) Metric(i int) string {
	if i < 0 || i >= len(r.MetricValues) {
		return ""
	}
	return r.MetricValues[i].Value
}

// MetricInt parses the i-th metric as an integer. Absent or unparsable
// values are 0; decimal values are truncated.
func (r Row) MetricInt(i int) int64 {
	v := r.Metric(i)
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return int64(f)
	}
	return 0
}

// MetricFloat parses the i-th metric as a float. Absent or unparsable values are 0.
func (r Row) MetricFloat(i int) float64 {
	f, err := strconv.ParseFloat(r.Metric(i), 64)
	if err != nil {
		return 0
	}
	return f
}

// toAPI converts the request into the Data API body.
func (r *ReportRequest) toAPI() *analyticsdata.RunReportRequest {
	out := &analyticsdata.RunReportRequest{
		DimensionFilter: r.DimensionFilter.toAPI(),
		Limit:           r.Limit,
	}
	for _, d := range r.DateRanges {
		out.DateRanges = append(out.DateRanges, &analyticsdata.DateRange{StartDate: d.StartDate, EndDate: d.EndDate})
	}
	for _, d := range r.Dimensions {
		out.Dimensions = append(out.Dimensions, &analyticsdata.Dimension{Name: d.Name})
	}
	for _, m := range r.Metrics {
		out.Metrics = append(out.Metrics, &analyticsdata.Metric{Name: m.Name})
	}
	return out
}

func (e *FilterExpression) toAPI() *analyticsdata.FilterExpression {
	if e == nil {
		return nil
	}
	out := &analyticsdata.FilterExpression{}
	if e.AndGroup != nil {
		group := &analyticsdata.FilterExpressionList{}
		for _, sub := range e.AndGroup.Expressions {
			if expr := sub.toAPI(); expr != nil {
				group.Expressions = append(group.Expressions, expr)
			}
		}
		out.AndGroup = group
	}
	if e.Filter != nil {
		f := &analyticsdata.Filter{FieldName: e.Filter.FieldName}
		if sf := e.Filter.StringFilter; sf != nil {
			f.StringFilter = &analyticsdata.StringFilter{
				MatchType:     sf.MatchType,
				Value:         sf.Value,
				CaseSensitive: sf.CaseSensitive,
			}
		}
		out.Filter = f
	}
	return out
}

// reportFromAPI copies a Data API response into a Report. A nil response
// yields an empty report.
func reportFromAPI(resp *analyticsdata.RunReportResponse) *Report {
	report := &Report{}
	if resp == nil {
		return report
	}
	for _, h := range resp.DimensionHeaders {
		if h != nil {
			report.DimensionHeaders = append(report.DimensionHeaders, Header{Name: h.Name})
		}
	}
	for _, h := range resp.MetricHeaders {
		if h != nil {
			report.MetricHeaders = append(report.MetricHeaders, Header{Name: h.Name, Type: h.Type})
		}
	}
	for _, row := range resp.Rows {
		if row == nil {
			continue
		}
		r := Row{
			DimensionValues: make([]Value, 0, len(row.DimensionValues)),
			MetricValues:    make([]Value, 0, len(row.MetricValues)),
		}
		for _, v := range row.DimensionValues {
			if v != nil {
				r.DimensionValues = append(r.DimensionValues, Value{Value: v.Value})
			} else {
				r.DimensionValues = append(r.DimensionValues, Value{})
			}
		}
		for _, v := range row.MetricValues {
			if v != nil {
				r.MetricValues = append(r.MetricValues, Value{Value: v.Value})
			} else {
				r.MetricValues = append(r.MetricValues, Value{})
			}
		}
		report.Rows = append(report.Rows, r)
	}
	report.RowCount = int(resp.RowCount)
	return report
}

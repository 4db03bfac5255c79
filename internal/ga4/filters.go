// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package ga4

// CustomerDimension is the custom user property that scopes data to a customer.
const CustomerDimension = "customUser:customer_root"

// MatchExact is the string filter match type used by every filter here.
const MatchExact = "EXACT"

// CustomerFilter restricts a report to one customer. An empty scope means
// all customers and returns nil.
func CustomerFilter(scope string) *FilterExpression {
	if scope == "" {
		return nil
	}
	return exact(CustomerDimension, scope)
}

// EventFilter restricts a report to one event name.
func EventFilter(name string) *FilterExpression {
	return exact("eventName", name)
}

// And combines the non-nil filters. It returns nil for none and the filter
// itself for exactly one.
func And(filters ...*FilterExpression) *FilterExpression {
	var exprs []*FilterExpression
	for _, f := range filters {
		if f != nil {
			exprs = append(exprs, f)
		}
	}
	switch len(exprs) {
	case 0:
		return nil
	case 1:
		return exprs[0]
	}
	return &FilterExpression{AndGroup: &FilterExpressionList{Expressions: exprs}}
}

func exact(field, value string) *FilterExpression {
	return &FilterExpression{Filter: &Filter{
		FieldName:    field,
		StringFilter: &StringFilter{MatchType: MatchExact, Value: value},
	}}
}

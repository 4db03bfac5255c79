// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package models

// KPISet holds the headline sales figures for one period and customer scope.
type KPISet struct {
	TotalRevenue      float64 `json:"total_revenue"`
	OrderCount        int64   `json:"order_count"`
	ConversionRate    float64 `json:"conversion_rate"` // 0-1
	AverageOrderValue float64 `json:"average_order_value"`
}

// Funnel counts the four purchase funnel events. Stages are not forced to be
// monotonic.
type Funnel struct {
	Session  int64 `json:"sessao"`
	Cart     int64 `json:"carrinho"`
	Checkout int64 `json:"checkout"`
	Purchase int64 `json:"compra"`
}

// Abandonment holds the cart funnel counts and the derived abandonment rates
// (percent). CartRate is clamped to [0,100]; CheckoutRate is not clamped and
// goes negative when purchases outnumber checkouts.
type Abandonment struct {
	AddToCart     int64   `json:"add_to_cart"`
	BeginCheckout int64   `json:"begin_checkout"`
	Purchase      int64   `json:"purchase"`
	CartRate      float64 `json:"cart_abandonment_rate"`
	CheckoutRate  float64 `json:"checkout_abandonment_rate"`
}

// Highlights names the top channel by revenue, top product by revenue and top
// city by sessions. Missing entries read "N/D".
type Highlights struct {
	TopChannel string `json:"top_channel"`
	TopProduct string `json:"top_product"`
	TopRegion  string `json:"top_region"`
}

// NotAvailable fills highlights that have no data.
const NotAvailable = "N/D"

// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package models

import "time"

// Placeholders for categorical values the backend left empty.
const (
	UndefinedValue    = "Não definida"
	UncategorizedItem = "Sem categoria"
)

// DailyRevenue is one day of the sales time series.
type DailyRevenue struct {
	Date        time.Time `json:"date"`
	Conversions int64     `json:"conversions"`
	Revenue     float64   `json:"revenue"`
}

// SourceMedium is acquisition by "source / medium". ConversionRate is the
// backend's session conversion rate, passed through.
type SourceMedium struct {
	Source         string  `json:"source"`
	Sessions       int64   `json:"sessions"`
	Conversions    int64   `json:"conversions"`
	Revenue        float64 `json:"revenue"`
	ConversionRate float64 `json:"conversion_rate"`
}

// Channel is acquisition by default channel group. ConversionRate is
// conversions/sessions*100.
type Channel struct {
	Channel        string  `json:"channel"`
	Sessions       int64   `json:"sessions"`
	Conversions    int64   `json:"conversions"`
	Revenue        float64 `json:"revenue"`
	ConversionRate float64 `json:"conversion_rate"`
}

// EventCount is a raw (eventName, eventCount) pair.
type EventCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// Product is sales by item name.
type Product struct {
	Product       string  `json:"product"`
	Quantity      int64   `json:"quantity"`
	Revenue       float64 `json:"revenue"`
	AverageTicket float64 `json:"average_ticket"`
}

// Category is sales by item category.
type Category struct {
	Category      string  `json:"category"`
	Quantity      int64   `json:"quantity"`
	Revenue       float64 `json:"revenue"`
	AverageTicket float64 `json:"average_ticket"`
}

// Device is sessions by device category, title-cased ("Mobile").
type Device struct {
	Category string `json:"category"`
	Sessions int64  `json:"sessions"`
}

// OperatingSystem is sessions by operating system.
type OperatingSystem struct {
	System   string `json:"system"`
	Sessions int64  `json:"sessions"`
}

// Region is sessions by region and city.
type Region struct {
	Region   string `json:"region"`
	City     string `json:"city"`
	Sessions int64  `json:"sessions"`
}

// EngagementDay is one day of site engagement. EngagementRate is a percentage.
type EngagementDay struct {
	Date           time.Time `json:"date"`
	Sessions       int64     `json:"sessions"`
	TotalUsers     int64     `json:"total_users"`
	NewUsers       int64     `json:"new_users"`
	PageViews      int64     `json:"page_views"`
	EngagementRate float64   `json:"engagement_rate"`
}

// Page is traffic by page path. EngagementRate is a percentage.
type Page struct {
	Path           string  `json:"path"`
	Views          int64   `json:"views"`
	Sessions       int64   `json:"sessions"`
	EngagementRate float64 `json:"engagement_rate"`
}

// CartProduct counts add_to_cart items by product.
type CartProduct struct {
	Product    string `json:"product"`
	AddsToCart int64  `json:"adds_to_cart"`
}

// ProductOverview merges sold and cart-added products. RevenueVariance is the
// formatted revenue change against the previous period, "n/d" when undefined.
type ProductOverview struct {
	Product         string  `json:"product"`
	AddsToCart      int64   `json:"adds_to_cart"`
	Purchased       int64   `json:"purchased"`
	Revenue         float64 `json:"revenue"`
	RevenueVariance string  `json:"revenue_variance"`
}

// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

// Package diagnostic builds the Portuguese consultant prompt sent to the chat
// completion backend from collected dashboard data.
package diagnostic

import "github.com/tomtom215/storelens/internal/models"

// Unavailable marks collected values that had no data.
const Unavailable = "n/d"

// Data is the bundle a diagnostic is built from. BuildPrompt reads only KPIs
// and Highlights; BuildDiagnostic also reads the device, city, strongest
// product, abandonment and funnel fields.
type Data struct {
	KPIs       models.KPISet     `json:"kpis"`
	Highlights models.Highlights `json:"highlights"`

	Funnel           models.Funnel      `json:"funnel"`
	Products         []models.Product   `json:"products"`
	Categories       []models.Category  `json:"categories"`
	TopDevice        string             `json:"top_device"`
	TopCity          string             `json:"top_city"`
	EngagementRate   float64            `json:"engagement_rate"`
	TotalSessions    int64              `json:"total_sessions"`
	TopPages         []string           `json:"top_pages"`
	Pages            []models.Page      `json:"pages"`
	Channels         []models.Channel   `json:"channels"`
	Abandonment      models.Abandonment `json:"abandonment"`
	Period           string             `json:"period"`
	StrongestProduct *models.Product    `json:"strongest_product,omitempty"`
	NegativeTrend    string             `json:"negative_trend,omitempty"`
}

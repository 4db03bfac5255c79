// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

/*
Package models defines the data structures shared across Storelens.

Model Categories:

 1. Report rows: one struct per normalized report table (DailyRevenue,
    SourceMedium, Channel, Product, Category, Device, OperatingSystem,
    Region, EngagementDay, Page, CartProduct, EventCount). Field order is the
    column order; JSON tags are the wire names.

 2. Aggregates: KPISet, Funnel and Abandonment.

 3. Accounts: User and the role constants used by internal/authz.

 4. API envelope: APIResponse, Metadata and APIError, shared by every HTTP
    handler.

Numbers are float64 for money and rates and int64 for counts. Rates in report
rows are percentages (0-100) except KPISet.ConversionRate, which is the raw
0-1 ratio returned by the analytics backend.
*/
package models

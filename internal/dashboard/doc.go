// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

/*
Package dashboard assembles the report views: Summary, Sales, Products,
Channels, Engagement and Pages, plus Collect, the bundle a diagnostic prompt
is built from.

Each view issues its independent report fetches concurrently with an
errgroup and assembles the results in a fixed order once all have returned.
The first failed fetch cancels the rest and its error is returned unchanged,
so callers can still match *ga4.APIError or ga4.ErrCircuitOpen.
*/
package dashboard

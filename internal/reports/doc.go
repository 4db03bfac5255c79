// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

/*
Package reports turns GA4 runReport responses into normalized tables.

Each Service method issues one query (three for Abandonment) scoped by a
Query, parses metric strings (absent or unparsable values become 0), fills
empty categorical values with a placeholder and sorts the rows by the ranking
column. An empty response is an empty table. Backend failures are returned
wrapped with the report name and are never cached; successful results are
memoized in a cache.Store.

	svc := reports.NewService(reporter, store, cfg.Analytics.PropertyID)
	q := reports.Query{Range: rng, Customer: "loja_a"}
	channels, err := svc.Channels(ctx, q)
	previous, err := svc.Channels(ctx, q.Previous())
*/
package reports

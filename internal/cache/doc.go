// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

/*
Package cache memoizes analytics report results for a fixed TTL.

Keys are derived from the operation name plus its ordered arguments, so the
same (property, period, customer) query always lands on the same entry:

	key := cache.GenerateKey("channels", propertyID, "2024-01-01", "2024-01-07", "loja_a")

Two Store backends are available:

  - Cache: in-process map with hit/miss/eviction counters. Expiry is checked
    strictly on every read. The Janitor service reclaims entries nobody reads.
  - RedisStore: shared between replicas, expiry handled by Redis.

Memoize wraps a fetch function and only caches successful results:

	kpis, err := cache.Memoize(ctx, store, "kpis", args, func(ctx context.Context) (kpi.Set, error) {
	    return fetchKPIs(ctx, q)
	})

There is no partial invalidation; a cached entry lives until its TTL passes.
*/
package cache

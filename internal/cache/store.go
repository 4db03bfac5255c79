// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package cache

import (
	"context"

	"github.com/goccy/go-json"

	"github.com/tomtom215/storelens/internal/logging"
	"github.com/tomtom215/storelens/internal/metrics"
)

// Store is the byte-level contract shared by the memory and Redis backends.
type Store interface {
	// Get returns the value and true when key is present and not expired.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key with the backend's TTL.
	Set(ctx context.Context, key string, value []byte) error
}

// Memoize returns the cached result of operation(args) or calls fn and stores
// its result. Errors from fn are returned as-is and never cached. A store
// failure is logged and does not fail the call.
func Memoize[T any](ctx context.Context, store Store, operation string, args []interface{}, fn func(context.Context) (T, error)) (T, error) {
	key := GenerateKey(operation, args...)

	if data, ok := store.Get(ctx, key); ok {
		var cached T
		if err := json.Unmarshal(data, &cached); err == nil {
			metrics.CacheHits.WithLabelValues(operation).Inc()
			return cached, nil
		}
		logging.Ctx(ctx).Warn().Str("operation", operation).Msg("Discarding undecodable cache entry")
	}
	metrics.CacheMisses.WithLabelValues(operation).Inc()

	result, err := fn(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	data, err := json.Marshal(result)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("operation", operation).Msg("Result not cacheable")
		return result, nil
	}
	if err := store.Set(ctx, key, data); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("operation", operation).Msg("Cache write failed")
	}
	return result, nil
}

// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package cache

import (
	"context"
	"time"

	"github.com/tomtom215/storelens/internal/logging"
)

// Janitor periodically sweeps expired entries out of a memory Cache.
// It implements suture.Service.
type Janitor struct {
	cache    *Cache
	interval time.Duration
}

// NewJanitor creates a janitor; a non-positive interval selects DefaultCleanupInterval.
func NewJanitor(c *Cache, interval time.Duration) *Janitor {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	return &Janitor{cache: c, interval: interval}
}

// Serve runs until ctx is canceled.
func (j *Janitor) Serve(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := j.cache.cleanup(); n > 0 {
				logging.Debug().Int64("evicted", n).Msg("Cache cleanup")
			}
		}
	}
}

func (j *Janitor) String() string {
	return "cache-janitor"
}

// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

// Package testinfra provides container helpers for integration tests.
//
// Tests using this package carry the integration build tag and are skipped
// when Docker is not available:
//
//	//go:build integration
//
//	func TestRedisStore(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    redis, err := testinfra.NewRedisContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, redis)
//	    // ...
//	}
//
// Run them with:
//
//	go test -tags integration ./...
//
// The first run downloads the container images; later runs reuse the cache.
package testinfra

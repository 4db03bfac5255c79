// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

// Package services adapts long-running Storelens components to suture.Service:
// the HTTP server and the expired-session sweeper. The cache janitor
// implements suture.Service itself (see cache.Janitor).
package services

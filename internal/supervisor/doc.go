// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

/*
Package supervisor runs the long-lived Storelens services under a suture v4
supervisor tree.

	storelens
	├── maintenance-layer
	│   ├── cache-janitor     (memory cache backend only)
	│   └── session-cleanup
	└── api-layer
	    └── http-server

Crashed services are restarted with suture's backoff; failures are counted
per layer so a misbehaving sweeper cannot take the API down. Events are
logged through sutureslog into the zerolog-backed slog logger from
logging.NewSlogLogger.

Usage in main:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddMaintenanceService(services.NewSessionCleanupService(authService, 15*time.Minute))
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, 10*time.Second))
	return tree.Serve(ctx)
*/
package supervisor

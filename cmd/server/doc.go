// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

/*
Command server runs the Storelens reporting API.

Storelens reads e-commerce metrics from the Google Analytics 4 Data API,
assembles dashboard views per customer and period, asks an OpenAI-compatible
chat model for a consultant-style diagnostic, and exports the result as text,
DOCX, PDF or Excel.

# Startup

 1. .env is loaded when present (godotenv), then configuration (Koanf v2:
    defaults, config.yaml, environment variables).
 2. DuckDB credential store is opened and migrated; ADMIN_USERNAME and
    ADMIN_PASSWORD seed the first administrator.
 3. Sessions (memory or BadgerDB), JWT signing and Casbin RBAC are set up.
 4. The GA4 client is wrapped in a circuit breaker and a report cache
    (memory or Redis).
 5. The supervisor tree starts the HTTP server, the session sweeper, the
    audit retention sweeper and, for the memory cache, the cache janitor.

# Configuration

Required:

	GA4_PROPERTY_ID                 default GA4 property
	GOOGLE_APPLICATION_CREDENTIALS  service-account key file (or GOOGLE_SERVICE_ACCOUNT inline)
	GROQ_API_KEY                    chat completion API key (or LLM_API_KEY)
	JWT_SECRET                      32+ character signing secret

Common options:

	HTTP_PORT                       listen port (default 3857)
	CACHE_BACKEND                   memory | redis
	REDIS_URL                       redis://host:6379/0
	SESSION_STORE                   memory | badger
	SESSION_STORE_PATH              BadgerDB directory
	AUDIT_ENABLED                   record the security audit trail (default true)
	AUDIT_RETENTION_DAYS            days of audit events to keep (default 90)

Customer scopes and their labels are set in the customers map of
config.yaml.

# Signals

SIGINT and SIGTERM cancel the tree; in-flight requests get 10 seconds to
finish before the server closes.
*/
package main

// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tomtom215/storelens/internal/api"
	"github.com/tomtom215/storelens/internal/audit"
	"github.com/tomtom215/storelens/internal/auth"
	"github.com/tomtom215/storelens/internal/authz"
	"github.com/tomtom215/storelens/internal/cache"
	"github.com/tomtom215/storelens/internal/config"
	"github.com/tomtom215/storelens/internal/dashboard"
	"github.com/tomtom215/storelens/internal/database"
	"github.com/tomtom215/storelens/internal/export"
	"github.com/tomtom215/storelens/internal/ga4"
	"github.com/tomtom215/storelens/internal/llm"
	"github.com/tomtom215/storelens/internal/logging"
	"github.com/tomtom215/storelens/internal/metrics"
	"github.com/tomtom215/storelens/internal/reports"
	"github.com/tomtom215/storelens/internal/supervisor"
	"github.com/tomtom215/storelens/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	sessionCleanupInterval = 15 * time.Minute
	auditRetentionInterval = 24 * time.Hour
)

func main() {
	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.Warn().Err(err).Msg("Failed to read .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("property_id", cfg.Analytics.PropertyID).
		Str("cache_backend", cfg.Cache.Backend).
		Str("session_store", cfg.Security.SessionStore).
		Int("customers", len(cfg.Customers)).
		Msg("Starting Storelens")
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin; set CORS_ORIGINS to the dashboard URL")
	}
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED")
	}

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Storelens stopped with an error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	if err := seedAdmin(ctx, db, &cfg.Security); err != nil {
		return err
	}

	auditStore := audit.NewDuckDBStore(db.Conn())
	if err := auditStore.CreateTable(ctx); err != nil {
		return fmt.Errorf("initialize audit trail: %w", err)
	}
	// Closed before the database so queued events are flushed.
	auditLog := audit.NewLogger(auditStore, cfg.Audit)
	defer func() { _ = auditLog.Close() }()

	sessionStore, sessionCloser, err := auth.NewSessionStore(&cfg.Security)
	if err != nil {
		return fmt.Errorf("initialize session store: %w", err)
	}
	defer func() {
		if err := sessionCloser.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing session store")
		}
	}()

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return fmt.Errorf("initialize JWT manager: %w", err)
	}
	authService := auth.NewService(db, sessionStore, jwtManager)

	enforcer, err := authz.NewEnforcer(authz.DefaultEnforcerConfig())
	if err != nil {
		return fmt.Errorf("initialize authorization: %w", err)
	}
	defer enforcer.Close()

	gaClient, err := ga4.NewClient(ctx, &cfg.Analytics)
	if err != nil {
		return fmt.Errorf("initialize analytics client: %w", err)
	}
	reporter := ga4.NewCircuitBreakerClient(gaClient, ga4.BreakerSettings{})

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	checks := map[string]api.Pinger{"database": db}
	store, closeStore, err := openCache(ctx, &cfg.Cache, tree)
	if err != nil {
		return err
	}
	defer closeStore()
	if p, ok := store.(api.Pinger); ok {
		checks["cache"] = p
	}

	handler := api.NewHandler(api.Deps{
		Config:    cfg,
		Dashboard: dashboard.New(reports.NewService(reporter, store, cfg.Analytics.PropertyID)),
		LLM:       llm.NewClient(&cfg.LLM, nil),
		Exporter:  export.New(cfg.Export.Heading),
		Users:     db,
		Auth:      authService,
		AuthMW:    auth.NewMiddleware(authService, cfg.Security.CookieSecure),
		Enforcer:  enforcer,
		Audit:     auditLog,
		Checks:    checks,
		Version:   version,
	})

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	server := &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(handler, nil).Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		// Diagnostics wait on the LLM; the write timeout must outlast it.
		WriteTimeout: cfg.Server.Timeout + cfg.LLM.Timeout,
		IdleTimeout:  120 * time.Second,
	}

	tree.AddMaintenanceService(services.NewSessionCleanupService(authService, sessionCleanupInterval))
	if auditLog.Enabled() {
		tree.AddMaintenanceService(services.NewCleanupService("audit-retention", auditLog, auditRetentionInterval))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, addr, 10*time.Second))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)
	var serveErr error
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			serveErr = err
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	return serveErr
}

// seedAdmin creates the configured administrator on first start. Existing
// accounts are never overwritten.
func seedAdmin(ctx context.Context, db *database.DB, sec *config.SecurityConfig) error {
	if sec.AdminPassword == "" {
		return nil
	}
	hash, err := auth.HashPassword(sec.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	created, err := db.SeedAdmin(ctx, sec.AdminUsername, hash)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if created {
		logging.Info().Str("username", sec.AdminUsername).Msg("Administrator account created")
	}
	return nil
}

// openCache selects the report cache backend. The memory backend's janitor
// runs under the maintenance layer.
func openCache(ctx context.Context, cfg *config.CacheConfig, tree *supervisor.SupervisorTree) (cache.Store, func(), error) {
	if cfg.Backend == "redis" {
		store, err := cache.NewRedisStore(ctx, cfg.RedisURL, cfg.TTL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to redis cache: %w", err)
		}
		logging.Info().Dur("ttl", cfg.TTL).Msg("Using Redis report cache")
		return store, func() {
			if err := store.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing redis cache")
			}
		}, nil
	}

	mem := cache.New(cfg.TTL)
	tree.AddMaintenanceService(cache.NewJanitor(mem, 0))
	logging.Info().Dur("ttl", cfg.TTL).Msg("Using in-memory report cache")
	return mem, func() {}, nil
}

// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package api

import (
	"context"
	"time"

	"github.com/tomtom215/storelens/internal/audit"
	"github.com/tomtom215/storelens/internal/auth"
	"github.com/tomtom215/storelens/internal/authz"
	"github.com/tomtom215/storelens/internal/config"
	"github.com/tomtom215/storelens/internal/dashboard"
	"github.com/tomtom215/storelens/internal/diagnostic"
	"github.com/tomtom215/storelens/internal/export"
	"github.com/tomtom215/storelens/internal/llm"
	"github.com/tomtom215/storelens/internal/models"
	"github.com/tomtom215/storelens/internal/reports"
)

// Dashboard assembles report views. Satisfied by *dashboard.Service.
type Dashboard interface {
	Summary(ctx context.Context, q reports.Query) (*dashboard.Summary, error)
	Sales(ctx context.Context, q reports.Query) (*dashboard.Sales, error)
	Products(ctx context.Context, q reports.Query) (*dashboard.Products, error)
	Channels(ctx context.Context, q reports.Query) (*dashboard.Channels, error)
	Engagement(ctx context.Context, q reports.Query) (*dashboard.Engagement, error)
	Pages(ctx context.Context, q reports.Query) (*dashboard.Pages, error)
	Collect(ctx context.Context, q reports.Query) (*diagnostic.Data, error)
}

// Completer produces chat completions. Satisfied by *llm.Client.
type Completer interface {
	Complete(ctx context.Context, prompt string) (*llm.Completion, error)
}

// UserStore manages dashboard accounts. Satisfied by *database.DB.
type UserStore interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the services the handlers call.
type Deps struct {
	Config    *config.Config
	Dashboard Dashboard
	LLM       Completer
	Exporter  *export.Exporter
	Users     UserStore
	Auth      *auth.Service
	AuthMW    *auth.Middleware
	Enforcer  *authz.Enforcer

	// Audit records the security trail. Nil disables it.
	Audit *audit.Logger

	// Checks are pinged by the health endpoint, keyed by component name.
	Checks map[string]Pinger

	Version string

	// Now defaults to time.Now; tests pin it.
	Now func() time.Time
}

// Handler serves the HTTP API.
type Handler struct {
	cfg       *config.Config
	dashboard Dashboard
	llm       Completer
	exporter  *export.Exporter
	users     UserStore
	auth      *auth.Service
	authMW    *auth.Middleware
	enforcer  *authz.Enforcer
	authzMW   *authz.Middleware
	audit     *audit.Logger
	checks    map[string]Pinger
	version   string
	now       func() time.Time
	startTime time.Time
}

// NewHandler creates the API handler.
func NewHandler(d Deps) *Handler {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	exporter := d.Exporter
	if exporter == nil {
		exporter = export.New(d.Config.Export.Heading)
	}
	return &Handler{
		cfg:       d.Config,
		dashboard: d.Dashboard,
		llm:       d.LLM,
		exporter:  exporter,
		users:     d.Users,
		auth:      d.Auth,
		authMW:    d.AuthMW,
		enforcer:  d.Enforcer,
		authzMW:   authz.NewMiddleware(d.Enforcer),
		audit:     d.Audit,
		checks:    d.Checks,
		version:   d.Version,
		now:       now,
		startTime: time.Now(),
	}
}

func actorFor(s *auth.Session) audit.Actor {
	return audit.UserActor(s.UserID, s.Username, s.Role, s.Customer)
}

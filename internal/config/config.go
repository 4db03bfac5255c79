// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

// Package config loads Storelens configuration from defaults, an optional
// YAML file and environment variables (in increasing priority).
package config

import (
	"sort"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig      `koanf:"server"`
	Analytics AnalyticsConfig   `koanf:"analytics"`
	LLM       LLMConfig         `koanf:"llm"`
	Cache     CacheConfig       `koanf:"cache"`
	Database  DatabaseConfig    `koanf:"database"`
	Security  SecurityConfig    `koanf:"security"`
	Logging   LoggingConfig     `koanf:"logging"`
	Export    ExportConfig      `koanf:"export"`
	Audit     AuditConfig       `koanf:"audit"`
	Customers map[string]string `koanf:"customers"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // "development", "staging", "production"
}

// AnalyticsConfig holds Google Analytics 4 Data API settings.
type AnalyticsConfig struct {
	PropertyID string `koanf:"property_id"`

	// CredentialsFile is a service-account key file path.
	CredentialsFile string `koanf:"credentials_file"`

	// CredentialsJSON is the inline service-account key, takes precedence over CredentialsFile.
	CredentialsJSON string `koanf:"credentials_json"`

	BaseURL           string        `koanf:"base_url"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	MaxRetries        int           `koanf:"max_retries"`
	RetryBaseDelay    time.Duration `koanf:"retry_base_delay"`
}

// LLMConfig holds the OpenAI-compatible chat completion backend settings.
type LLMConfig struct {
	BaseURL string `koanf:"base_url"`
	APIKey  string `koanf:"api_key"`

	// PreferredModel is tried before any discovered or fallback model.
	PreferredModel string `koanf:"preferred_model"`

	// FallbackModels is the static candidate tail, in priority order.
	FallbackModels []string `koanf:"fallback_models"`

	// DiscoveryEnabled lists the backend's models and ranks them by PriorityPrefixes.
	DiscoveryEnabled bool     `koanf:"discovery_enabled"`
	PriorityPrefixes []string `koanf:"priority_prefixes"`

	Temperature float64       `koanf:"temperature"`
	MaxTokens   int           `koanf:"max_tokens"`
	Timeout     time.Duration `koanf:"timeout"`
}

// CacheConfig holds report memoization settings.
type CacheConfig struct {
	Backend  string        `koanf:"backend"` // "memory" or "redis"
	TTL      time.Duration `koanf:"ttl"`
	RedisURL string        `koanf:"redis_url"`
}

// DatabaseConfig holds the DuckDB credential store settings.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`
}

// SecurityConfig holds authentication and HTTP protection settings.
type SecurityConfig struct {
	JWTSecret      string        `koanf:"jwt_secret"`
	SessionTimeout time.Duration `koanf:"session_timeout"`

	// AdminUsername and AdminPassword seed the first administrator when absent.
	AdminUsername string `koanf:"admin_username"`
	AdminPassword string `koanf:"admin_password"`

	RateLimitReqs      int           `koanf:"rate_limit_reqs"`
	RateLimitWindow    time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled  bool          `koanf:"rate_limit_disabled"`
	LoginRateLimitReqs int           `koanf:"login_rate_limit_reqs"`
	CORSOrigins        []string      `koanf:"cors_origins"`
	CookieSecure       bool          `koanf:"cookie_secure"`

	// SessionStore selects "memory" or "badger".
	SessionStore     string `koanf:"session_store"`
	SessionStorePath string `koanf:"session_store_path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// ExportConfig holds document export settings.
type ExportConfig struct {
	Heading string `koanf:"heading"`
}

// AuditConfig holds security audit trail settings.
type AuditConfig struct {
	Enabled       bool `koanf:"enabled"`
	RetentionDays int  `koanf:"retention_days"`
	BufferSize    int  `koanf:"buffer_size"`

	// LogToStdout mirrors every audit event into the application log.
	LogToStdout bool `koanf:"log_to_stdout"`
}

// Load loads configuration using LoadWithKoanf.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// CustomerName returns the friendly label for a customer scope. Unmapped
// scopes are returned unchanged and an empty scope means all customers.
func (c *Config) CustomerName(scope string) string {
	if scope == "" {
		return AllCustomersLabel
	}
	if name, ok := c.Customers[scope]; ok && name != "" {
		return name
	}
	return scope
}

// CustomerScopes returns the configured customer scopes sorted by label.
func (c *Config) CustomerScopes() []string {
	scopes := make([]string, 0, len(c.Customers))
	for scope := range c.Customers {
		scopes = append(scopes, scope)
	}
	sort.Slice(scopes, func(i, j int) bool {
		return c.CustomerName(scopes[i]) < c.CustomerName(scopes[j])
	})
	return scopes
}

// AllCustomersLabel names the unscoped view in prompts and listings.
const AllCustomersLabel = "Todos"

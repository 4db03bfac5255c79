// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config file locations searched in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/storelens/config.yaml",
	"/etc/storelens/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultFallbackModels is the static chat model tail, newest and largest first.
var DefaultFallbackModels = []string{
	"llama-3.3-70b-versatile",
	"llama-3.1-70b-versatile",
	"llama-3.1-8b-instant",
	"llama3-70b-8192",
	"llama3-8b-8192",
}

// DefaultPriorityPrefixes ranks discovered models; earlier prefixes win.
var DefaultPriorityPrefixes = []string{
	"llama-3.3-70b",
	"llama-3.1-70b",
	"llama3-70b",
	"llama-3.1-8b",
	"llama3-8b",
	"mixtral-8x7b",
	"gemma2-9b",
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        3857,
			Host:        "0.0.0.0",
			Timeout:     60 * time.Second,
			Environment: "development",
		},
		Analytics: AnalyticsConfig{
			BaseURL:           "https://analyticsdata.googleapis.com",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 5,
			Burst:             10,
			MaxRetries:        3,
			RetryBaseDelay:    time.Second,
		},
		LLM: LLMConfig{
			BaseURL:          "https://api.groq.com/openai/v1",
			FallbackModels:   append([]string(nil), DefaultFallbackModels...),
			DiscoveryEnabled: true,
			PriorityPrefixes: append([]string(nil), DefaultPriorityPrefixes...),
			Temperature:      0.3,
			MaxTokens:        2048,
			Timeout:          90 * time.Second,
		},
		Cache: CacheConfig{
			Backend: "memory",
			TTL:     time.Hour,
		},
		Database: DatabaseConfig{
			Path:      "/data/storelens.duckdb",
			MaxMemory: "512MB",
			Threads:   0, // 0 = DuckDB default
		},
		Security: SecurityConfig{
			SessionTimeout:     24 * time.Hour,
			AdminUsername:      "admin",
			RateLimitReqs:      100,
			RateLimitWindow:    time.Minute,
			LoginRateLimitReqs: 10,
			CORSOrigins:        []string{"*"},
			SessionStore:       "badger",
			SessionStorePath:   "/data/sessions",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Export: ExportConfig{
			Heading: "Diagnóstico Automatizado de Performance GA4",
		},
		Audit: AuditConfig{
			Enabled:       true,
			RetentionDays: 90,
			BufferSize:    1000,
		},
	}
}

// LoadWithKoanf loads configuration from layered sources:
//  1. Built-in defaults
//  2. Optional YAML file (CONFIG_PATH or DefaultConfigPaths)
//  3. Environment variables
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated strings when set via env.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"llm.fallback_models",
	"llm.priority_prefixes",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

var envMappings = map[string]string{
	// Server
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	// Google Analytics
	"ga4_property_id":                "analytics.property_id",
	"google_application_credentials": "analytics.credentials_file",
	"google_service_account":         "analytics.credentials_json",
	"ga4_base_url":                   "analytics.base_url",
	"ga4_timeout":                    "analytics.timeout",
	"ga4_requests_per_second":        "analytics.requests_per_second",
	"ga4_max_retries":                "analytics.max_retries",

	// Chat completion backend
	"groq_api_key":          "llm.api_key",
	"llm_api_key":           "llm.api_key",
	"llm_base_url":          "llm.base_url",
	"llm_model":             "llm.preferred_model",
	"llm_fallback_models":   "llm.fallback_models",
	"llm_discovery_enabled": "llm.discovery_enabled",
	"llm_priority_prefixes": "llm.priority_prefixes",
	"llm_temperature":       "llm.temperature",
	"llm_max_tokens":        "llm.max_tokens",
	"llm_timeout":           "llm.timeout",

	// Cache
	"cache_backend": "cache.backend",
	"cache_ttl":     "cache.ttl",
	"redis_url":     "cache.redis_url",

	// Database
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	// Security
	"jwt_secret":                "security.jwt_secret",
	"session_timeout":           "security.session_timeout",
	"admin_username":            "security.admin_username",
	"admin_password":            "security.admin_password",
	"rate_limit_requests":       "security.rate_limit_reqs",
	"rate_limit_window":         "security.rate_limit_window",
	"disable_rate_limit":        "security.rate_limit_disabled",
	"login_rate_limit_requests": "security.login_rate_limit_reqs",
	"cors_origins":              "security.cors_origins",
	"cookie_secure":             "security.cookie_secure",
	"session_store":             "security.session_store",
	"session_store_path":        "security.session_store_path",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Export
	"export_heading": "export.heading",

	// Audit
	"audit_enabled":        "audit.enabled",
	"audit_retention_days": "audit.retention_days",
	"audit_buffer_size":    "audit.buffer_size",
	"audit_log_stdout":     "audit.log_to_stdout",
}

// envTransformFunc maps environment variable names to koanf paths.
// Unmapped variables return "" and are skipped.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - GROQ_API_KEY -> llm.api_key
//   - GOOGLE_SERVICE_ACCOUNT -> analytics.credentials_json
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

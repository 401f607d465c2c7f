// Package config handles application configuration.
//
// Go Pattern: Configuration via environment variables with sensible defaults.
// Two layers live here: Load reads the process environment once at startup
// (port, database, secrets), and Resolve derives the per-session backend
// configuration from the page origin.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all process-level configuration.
type Config struct {
	// Server settings
	Port    string
	GinMode string // "debug", "release", or "test"

	// Preference storage. Empty DatabaseURL keeps preferences in memory.
	DatabaseURL    string
	MigrationsPath string

	// Origin that relative API endpoints are resolved against.
	// Empty means "same origin as the page".
	APIOrigin string

	// Backend HTTP client timeout.
	HTTPTimeout time.Duration

	// Secret for signing visitor cookies.
	VisitorSecret string

	// Optional analytics sink
	AnalyticsURL    string
	AnalyticsSecret string

	// Requests per minute per visitor against the view server; 0 disables.
	RateLimit int

	// How long an idle visitor session is kept in memory.
	SessionTTL time.Duration

	// CORS
	AllowedOrigins []string
}

const defaultVisitorSecret = "dev-visitor-secret-change-in-production"

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),

		APIOrigin:   getEnv("API_ORIGIN", ""),
		HTTPTimeout: time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 60)) * time.Second,

		VisitorSecret: getEnv("VISITOR_SECRET", defaultVisitorSecret),

		AnalyticsURL:    getEnv("ANALYTICS_URL", ""),
		AnalyticsSecret: getEnv("ANALYTICS_SECRET", ""),

		RateLimit:  getEnvInt("RATE_LIMIT", 30),
		SessionTTL: time.Duration(getEnvInt("SESSION_TTL_MINUTES", 60)) * time.Minute,

		AllowedOrigins: []string{
			getEnv("CORS_ORIGIN", "http://localhost:8080"),
		},
	}

	if cfg.HTTPTimeout < 0 {
		return nil, fmt.Errorf("HTTP_TIMEOUT_SECONDS must not be negative")
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL_MINUTES must be positive")
	}

	// Security: the visitor secret MUST be set in production mode.
	if cfg.GinMode == "release" && cfg.VisitorSecret == defaultVisitorSecret {
		return nil, fmt.Errorf("VISITOR_SECRET must be set in production; refusing to start with default secret")
	}

	return cfg, nil
}

// getEnv reads an environment variable with a fallback default.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvInt reads an integer environment variable with a fallback.
func getEnvInt(key string, fallback int) int {
	str := getEnv(key, "")
	if str == "" {
		return fallback
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return fallback
	}
	return val
}

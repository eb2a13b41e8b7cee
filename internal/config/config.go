// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port     string
	Env      string // "development", "staging", "production"
	LogLevel string

	// Database (optional audit trail; uses in-memory if not set)
	DatabaseURL string

	// Engine settings
	DenylistIPs      []string // static IP denylist, immutable after startup
	FlagThreshold    int      // score above which a check is flagged
	MaxSessionEvents int      // per-session history cap, 0 = unlimited

	// Security
	RateLimitRPM int

	// Tracing
	OTLPEndpoint string
}

// Defaults
const (
	DefaultPort          = "8080"
	DefaultEnv           = "development"
	DefaultLogLevel      = "info"
	DefaultFlagThreshold = 60
	DefaultRateLimitRPM  = 300
	// DefaultDenylist carries the two documentation IPs the service has
	// always shipped with; real deployments override DENYLIST_IPS.
	DefaultDenylist = "1.1.1.1,2.2.2.2"
)

// Load reads configuration from environment variables.
// It loads .env file if present (for local development).
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not present)
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", DefaultPort),
		Env:              getEnv("ENV", DefaultEnv),
		LogLevel:         getEnv("LOG_LEVEL", DefaultLogLevel),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		DenylistIPs:      splitList(getEnv("DENYLIST_IPS", DefaultDenylist)),
		FlagThreshold:    getEnvInt("FLAG_THRESHOLD", DefaultFlagThreshold),
		MaxSessionEvents: getEnvInt("MAX_SESSION_EVENTS", 0),
		RateLimitRPM:     getEnvInt("RATE_LIMIT_RPM", DefaultRateLimitRPM),
		OTLPEndpoint:     os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is coherent.
func (c *Config) Validate() error {
	if c.FlagThreshold < 0 {
		return fmt.Errorf("FLAG_THRESHOLD must be >= 0, got %d", c.FlagThreshold)
	}
	if c.MaxSessionEvents < 0 {
		return fmt.Errorf("MAX_SESSION_EVENTS must be >= 0, got %d", c.MaxSessionEvents)
	}
	for _, ip := range c.DenylistIPs {
		if net.ParseIP(ip) == nil {
			return fmt.Errorf("DENYLIST_IPS entry %q is not a valid IP address", ip)
		}
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

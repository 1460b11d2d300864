package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the configuration for the cafe service.
// Environment variables are parsed from the CAFE_SERVER_ prefix,
// e.g. CAFE_SERVER_HTTP_PORT, CAFE_SERVER_MAPS_API_KEY.
type Config struct {
	// Build target selects high-level environment: local, cloud-dev, cloud
	BuildTarget string `envconfig:"BUILD_TARGET" default:"local"`

	// Derived or override store driver (sqlite | postgres)
	DBDriver string `envconfig:"DB_DRIVER" default:"auto"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Store configuration
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"./data/cafes.db"`

	// Places provider configuration. The API key is startup-fatal when
	// absent; there is no per-request fallback.
	MapsAPIKey  string `envconfig:"MAPS_API_KEY" default:""`
	MapsBaseURL string `envconfig:"MAPS_BASE_URL" default:"https://maps.googleapis.com"`

	// Summarizer collaborator (optional; review summaries are skipped when
	// unset)
	SummarizerURL   string `envconfig:"SUMMARIZER_URL" default:""`
	SummarizerModel string `envconfig:"SUMMARIZER_MODEL" default:"llama3.2"`

	// Health checking
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`

	// Per-call timeout applied to provider and store calls inside a request
	CallTimeoutSeconds int `envconfig:"CALL_TIMEOUT_SECONDS" default:"10"`

	// Timeout for the store bootstrap check at startup
	BootstrapTimeoutSeconds int `envconfig:"BOOTSTRAP_TIMEOUT_SECONDS" default:"30"`
}

// ResolveDefaults validates BuildTarget and derives DBDriver when it is
// "auto" or empty.
func (c *Config) ResolveDefaults() error {
	var defaultDB string

	switch c.BuildTarget {
	case "local":
		defaultDB = "sqlite"
	case "cloud-dev", "cloud":
		defaultDB = "postgres"
	default:
		return fmt.Errorf("unsupported BUILD_TARGET: %s", c.BuildTarget)
	}

	if c.DBDriver == "" || c.DBDriver == "auto" {
		c.DBDriver = defaultDB
	}

	allowedDB := map[string]bool{"sqlite": true, "postgres": true}
	if !allowedDB[c.DBDriver] {
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	return nil
}

// New creates a new Config by parsing environment variables.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("CAFE_SERVER", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// GetHTTPAddr returns the HTTP server address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

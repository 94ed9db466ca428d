package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Environment represents different deployment environments.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the kenangan backend.
// Environment variables are parsed from the KENANGAN_ prefix,
// e.g. KENANGAN_HTTP_PORT, KENANGAN_GEMINI_API_KEY.
type Config struct {
	// BuildTarget selects the high-level environment: local, cloud-dev, cloud.
	BuildTarget string `envconfig:"BUILD_TARGET" default:"local"`

	// Derived or override drivers.
	StoreDriver string `envconfig:"STORE_DRIVER" default:"auto"`
	BlobDriver  string `envconfig:"BLOB_DRIVER" default:"auto"`
	PushDriver  string `envconfig:"PUSH_DRIVER" default:"auto"`
	AuthDriver  string `envconfig:"AUTH_DRIVER" default:"auto"`

	Environment  Environment `envconfig:"ENVIRONMENT" default:"development"`
	GCPProjectID string      `envconfig:"GCP_PROJECT_ID" default:""`

	// HTTP configuration.
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Store configuration.
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"kenangan.db"`

	// Object storage.
	StorageBucket string `envconfig:"STORAGE_BUCKET" default:""`
	BlobDir       string `envconfig:"BLOB_DIR" default:"blobs"`

	// Generation.
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY" default:""`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"gemini-3-pro-image-preview"`
	// GenerateTimeoutSeconds bounds one scrapbook invocation end to end.
	GenerateTimeoutSeconds int `envconfig:"GENERATE_TIMEOUT_SECONDS" default:"60"`

	// Fanout.
	TokenBatchSize int `envconfig:"TOKEN_BATCH_SIZE" default:"10"`
	EventBusBuffer int `envconfig:"EVENT_BUS_BUFFER" default:"128"`

	// Health checking.
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`
}

// ResolveDefaults validates BuildTarget and derives drivers set to "auto" or empty.
func (c *Config) ResolveDefaults() error {
	var store, blob, push, auth string

	switch c.BuildTarget {
	case "local":
		store, blob, push, auth = "sqlite", "fs", "log", "static"
	case "cloud-dev":
		store, blob, push, auth = "postgres", "fs", "log", "static"
	case "cloud":
		store, blob, push, auth = "firestore", "gcs", "fcm", "firebase"
	default:
		return fmt.Errorf("unsupported BUILD_TARGET: %s", c.BuildTarget)
	}

	if c.StoreDriver == "" || c.StoreDriver == "auto" {
		c.StoreDriver = store
	}
	if c.BlobDriver == "" || c.BlobDriver == "auto" {
		c.BlobDriver = blob
	}
	if c.PushDriver == "" || c.PushDriver == "auto" {
		c.PushDriver = push
	}
	if c.AuthDriver == "" || c.AuthDriver == "auto" {
		c.AuthDriver = auth
	}

	allowedStore := map[string]bool{"sqlite": true, "postgres": true, "firestore": true}
	if !allowedStore[c.StoreDriver] {
		return fmt.Errorf("unsupported STORE_DRIVER: %s", c.StoreDriver)
	}
	allowedBlob := map[string]bool{"fs": true, "gcs": true}
	if !allowedBlob[c.BlobDriver] {
		return fmt.Errorf("unsupported BLOB_DRIVER: %s", c.BlobDriver)
	}
	allowedPush := map[string]bool{"log": true, "fcm": true}
	if !allowedPush[c.PushDriver] {
		return fmt.Errorf("unsupported PUSH_DRIVER: %s", c.PushDriver)
	}
	allowedAuth := map[string]bool{"static": true, "firebase": true}
	if !allowedAuth[c.AuthDriver] {
		return fmt.Errorf("unsupported AUTH_DRIVER: %s", c.AuthDriver)
	}

	if c.StoreDriver == "firestore" && c.GCPProjectID == "" {
		return fmt.Errorf("KENANGAN_GCP_PROJECT_ID required for firestore store")
	}
	if c.BlobDriver == "gcs" && c.StorageBucket == "" {
		return fmt.Errorf("KENANGAN_STORAGE_BUCKET required for gcs blobs")
	}
	if c.TokenBatchSize <= 0 || c.TokenBatchSize > 10 {
		return fmt.Errorf("KENANGAN_TOKEN_BATCH_SIZE must be 1..10, got %d", c.TokenBatchSize)
	}
	return nil
}

// New creates a new Config by parsing environment variables.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("KENANGAN", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsTesting returns true if the environment is set to testing.
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

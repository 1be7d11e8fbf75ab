// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds settings shared by the API server and the worker.
type Config struct {
	Port        string
	Environment string

	// ArtifactsDir is the local artifact directory. ArtifactsURL, when set,
	// takes precedence and artifacts are fetched over HTTP instead.
	ArtifactsDir string
	ArtifactsURL string

	StorageBackend string
	DBMigrate      bool

	CORSAllowedOrigins []string
	RateLimitPerMinute int
	RequireTLS         bool

	OTelEnabled  bool
	OTLPEndpoint string

	PubSubProjectID    string
	PubSubSubscription string
	WorkerConcurrency  int
	WorkerJobTimeout   time.Duration
}

// LoadDotEnv loads variables from the given files, or from .env when none
// are given. Missing files are skipped and variables already set in the
// environment are never overridden.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// FromEnv builds a Config from environment variables.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:               getEnvOrDefault("APP_PORT", "8080"),
		Environment:        getEnvOrDefault("APP_ENV", "development"),
		ArtifactsDir:       getEnvOrDefault("ARTIFACTS_DIR", "artifacts"),
		ArtifactsURL:       strings.TrimSpace(os.Getenv("ARTIFACTS_URL")),
		StorageBackend:     strings.ToLower(getEnvOrDefault("STORAGE_BACKEND", StoragePostgres)),
		CORSAllowedOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		OTLPEndpoint:       getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		PubSubProjectID:    os.Getenv("PUBSUB_PROJECT_ID"),
		PubSubSubscription: getEnvOrDefault("PUBSUB_SUBSCRIPTION", "screenaware-scoring"),
	}

	var err error
	if cfg.DBMigrate, err = getBool("DB_MIGRATE", true); err != nil {
		return Config{}, err
	}
	if cfg.RequireTLS, err = getBool("REQUIRE_TLS", false); err != nil {
		return Config{}, err
	}
	if cfg.OTelEnabled, err = getBool("OTEL_ENABLED", false); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitPerMinute, err = getInt("RATE_LIMIT_PER_MINUTE", 120); err != nil {
		return Config{}, err
	}
	if cfg.WorkerConcurrency, err = getInt("WORKER_CONCURRENCY", 4); err != nil {
		return Config{}, err
	}
	if cfg.WorkerJobTimeout, err = getDuration("WORKER_JOB_TIMEOUT", 2*time.Minute); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that have a closed set of values.
func (c Config) Validate() error {
	switch c.StorageBackend {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("config: STORAGE_BACKEND must be %q or %q, got %q", StoragePostgres, StorageMemory, c.StorageBackend)
	}
	if c.ArtifactsDir == "" && c.ArtifactsURL == "" {
		return errors.New("config: one of ARTIFACTS_DIR or ARTIFACTS_URL is required")
	}
	if c.WorkerConcurrency < 1 {
		return fmt.Errorf("config: WORKER_CONCURRENCY must be positive, got %d", c.WorkerConcurrency)
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("config: RATE_LIMIT_PER_MINUTE must not be negative, got %d", c.RateLimitPerMinute)
	}
	return nil
}

// IsProduction reports whether the service runs in production.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}

func getInt(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

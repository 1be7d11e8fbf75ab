// Package app wires the shared startup pieces of the API server and the
// worker: logging, the model bundle and the data point store.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/screenaware/screenaware/internal/config"
	"github.com/screenaware/screenaware/internal/database"
	"github.com/screenaware/screenaware/internal/modelbundle"
	"github.com/screenaware/screenaware/internal/resilience"
	"github.com/screenaware/screenaware/internal/userdata"
)

// bundleLoadTimeout bounds fetching and parsing the model bundle.
const bundleLoadTimeout = 2 * time.Minute

// NewLogger returns the service logger writing JSON to w. Development
// environments log at debug level.
func NewLogger(w io.Writer, serviceName, version string, cfg config.Config) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	level := zerolog.InfoLevel
	if !cfg.IsProduction() {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", version).
		Logger()
}

// BundleSource returns the artifact source named by cfg. ARTIFACTS_URL wins
// over ARTIFACTS_DIR.
func BundleSource(cfg config.Config) modelbundle.Source {
	if cfg.ArtifactsURL != "" {
		client := resilience.NewClient(resilience.DefaultConfig("artifact-store"))
		return modelbundle.NewHTTPSource(cfg.ArtifactsURL, client)
	}
	return modelbundle.DirSource{Dir: cfg.ArtifactsDir}
}

// LoadBundle loads the model bundle from the configured source. The returned
// string describes the source for logs and the model info endpoint.
func LoadBundle(ctx context.Context, cfg config.Config, log zerolog.Logger) (*modelbundle.Bundle, string, error) {
	src := BundleSource(cfg)
	desc := fmt.Sprint(src)

	ctx, cancel := context.WithTimeout(ctx, bundleLoadTimeout)
	defer cancel()

	start := time.Now()
	bundle, err := modelbundle.Load(ctx, src)
	if err != nil {
		return nil, desc, err
	}

	log.Info().
		Str("source", desc).
		Strs("risk_classes", bundle.Risk.Labels.Labels()).
		Int("clusters", len(bundle.Cluster.Names.IDs())).
		Bool("default_mood_range", bundle.Mood.Range.Default).
		Dur("duration", time.Since(start)).
		Msg("model bundle loaded")

	if bundle.Mood.Range.Default {
		log.Warn().
			Float64("min", bundle.Mood.Range.Min).
			Float64("max", bundle.Mood.Range.Max).
			Msg("mood range missing from artifacts, using defaults")
	}
	return bundle, desc, nil
}

// OpenRepository opens the configured data point store. The returned close
// function releases it and is never nil.
func OpenRepository(ctx context.Context, cfg config.Config, log zerolog.Logger) (userdata.Repository, func(), error) {
	if cfg.StorageBackend == config.StorageMemory {
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		return userdata.NewInMemoryRepository(), func() {}, nil
	}

	dbConfig := database.ConfigFromEnv()
	if cfg.DBMigrate {
		if err := database.Migrate(dbConfig); err != nil {
			return nil, func() {}, fmt.Errorf("migrate database: %w", err)
		}
		log.Info().Msg("database migrations applied")
	}

	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		return nil, func() {}, fmt.Errorf("connect database: %w", err)
	}

	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	return userdata.NewPostgresRepository(pool), pool.Close, nil
}

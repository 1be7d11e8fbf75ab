// Package main provides the entrypoint for the ScreenAware API server.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/screenaware/screenaware/internal/api"
	"github.com/screenaware/screenaware/internal/api/middleware"
	"github.com/screenaware/screenaware/internal/app"
	"github.com/screenaware/screenaware/internal/config"
	"github.com/screenaware/screenaware/internal/database"
	"github.com/screenaware/screenaware/internal/prediction"
	"github.com/screenaware/screenaware/internal/telemetry"
	"github.com/screenaware/screenaware/internal/userdata"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "screenaware-api"

	migrateDown := flag.Bool("migrate-down", false, "roll back all database migrations and exit")
	flag.Parse()

	bootLog := zerolog.New(os.Stdout).With().Timestamp().Str("service", serviceName).Logger()

	if err := config.LoadDotEnv(); err != nil {
		bootLog.Fatal().Err(err).Msg("failed to load .env")
	}
	cfg, err := config.FromEnv()
	if err != nil {
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	// Setup structured logging
	log := app.NewLogger(os.Stdout, serviceName, Version, cfg)

	if *migrateDown {
		if err := database.MigrateDown(database.ConfigFromEnv()); err != nil {
			log.Fatal().Err(err).Msg("failed to roll back migrations")
		}
		log.Info().Msg("database migrations rolled back")
		return
	}

	log.Info().
		Str("build_time", BuildTime).
		Str("environment", cfg.Environment).
		Msg("starting ScreenAware API")

	// Initialize OpenTelemetry
	ctx := context.Background()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.OTelEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if tp.Enabled() {
		log.Info().
			Str("otlp_endpoint", cfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Load the model bundle; serving without it is not possible
	bundle, bundleSource, err := app.LoadBundle(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("source", bundleSource).Msg("failed to load model bundle")
	}

	predictions, err := prediction.NewService(bundle)
	if err != nil {
		log.Fatal().Err(err).Msg("model bundle is inconsistent")
	}

	// Open the data point store
	repo, closeRepo, err := app.OpenRepository(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}
	defer closeRepo()

	userData := userdata.NewService(repo, predictions, log)

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:            Version,
		BuildTime:          BuildTime,
		Logger:             log,
		ServiceName:        serviceName,
		Metrics:            metrics,
		Predictions:        predictions,
		UserData:           userData,
		BundleSource:       bundleSource,
		CORSOrigins:        cfg.CORSAllowedOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		RequireTLS:         cfg.RequireTLS,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	log.Info().Msg("server stopped")
}

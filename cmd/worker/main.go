// Package main provides the entrypoint for the ScreenAware scoring worker.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/screenaware/screenaware/internal/api/models"
	"github.com/screenaware/screenaware/internal/api/response"
	"github.com/screenaware/screenaware/internal/app"
	"github.com/screenaware/screenaware/internal/config"
	"github.com/screenaware/screenaware/internal/prediction"
	"github.com/screenaware/screenaware/internal/telemetry"
	"github.com/screenaware/screenaware/internal/userdata"
	"github.com/screenaware/screenaware/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "screenaware-worker"

	bootLog := zerolog.New(os.Stdout).With().Timestamp().Str("service", serviceName).Logger()

	if err := config.LoadDotEnv(); err != nil {
		bootLog.Fatal().Err(err).Msg("failed to load .env")
	}
	cfg, err := config.FromEnv()
	if err != nil {
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.PubSubProjectID == "" {
		bootLog.Fatal().Msg("PUBSUB_PROJECT_ID is required")
	}

	log := app.NewLogger(os.Stdout, serviceName, Version, cfg)
	log.Info().
		Str("build_time", BuildTime).
		Msg("starting ScreenAware worker")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	bundle, bundleSource, err := app.LoadBundle(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("source", bundleSource).Msg("failed to load model bundle")
	}
	predictions, err := prediction.NewService(bundle)
	if err != nil {
		log.Fatal().Err(err).Msg("model bundle is inconsistent")
	}

	repo, closeRepo, err := app.OpenRepository(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}
	defer closeRepo()

	userData := userdata.NewService(repo, predictions, log)

	job := worker.NewScoreJob(worker.ScoreJobConfig{
		Config: worker.BatchConfig{
			Concurrency: cfg.WorkerConcurrency,
		},
		Logger:   log,
		Recorder: userData,
	})
	processor := worker.NewProcessor(job, userData, cfg.WorkerJobTimeout, log)

	handler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
		ProjectID:        cfg.PubSubProjectID,
		SubscriptionName: cfg.PubSubSubscription,
		Processor:        processor,
		Logger:           log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create pubsub handler")
	}
	defer func() {
		if closeErr := handler.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close pubsub client")
		}
	}()

	// Worker also exposes a health endpoint for Cloud Run
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		response.JSON(w, req, http.StatusOK, models.Health{
			Status:  models.HealthStatusOK,
			Time:    models.Timestamp(time.Now()),
			Details: job.MetricsSnapshot(),
		})
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health check server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	go func() {
		if err := handler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("pubsub receive stopped")
			cancel()
		}
	}()

	// Wait for interrupt signal or a fatal receive error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down worker")
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}

// Package api provides the HTTP API for ScreenAware.
package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/screenaware/screenaware/internal/api/handler"
	"github.com/screenaware/screenaware/internal/api/middleware"
	"github.com/screenaware/screenaware/internal/modelbundle"
	"github.com/screenaware/screenaware/internal/prediction"
	"github.com/screenaware/screenaware/internal/userdata"
)

// DefaultServiceName is used for spans when RouterConfig.ServiceName is empty.
const DefaultServiceName = "screenaware-api"

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics
	Predictions *prediction.Service
	UserData    *userdata.Service
	// BundleSource describes where the model bundle was loaded from.
	BundleSource string
	CORSOrigins  []string
	// RateLimitPerMinute overrides the prediction rate limit. Zero keeps the
	// default; negative disables limiting.
	RateLimitPerMinute int
	RequireTLS         bool
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = DefaultServiceName
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))         // Structured logging
	r.Use(middleware.Recovery(cfg.Logger))       // Panic recovery
	r.Use(chimiddleware.RealIP)                  // Real IP extraction
	r.Use(middleware.SecurityHeaders)            // Security headers
	r.Use(middleware.RequireTLS(cfg.RequireTLS)) // TLS enforcement
	r.Use(middleware.CORS(cfg.CORSOrigins))      // Browser dashboard access
	r.Use(middleware.ContentTypeJSON)            // JSON content type
	r.Use(middleware.RequireJSON)                // JSON request bodies

	var bundle *modelbundle.Bundle
	if cfg.Predictions != nil {
		bundle = cfg.Predictions.Bundle()
	}
	var store handler.Pinger
	if cfg.UserData != nil {
		store = cfg.UserData
	}

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, bundle, cfg.BundleSource, store)

	predictionLimit := middleware.PredictionRateLimit
	switch {
	case cfg.RateLimitPerMinute > 0:
		predictionLimit = middleware.RateLimitConfig{RequestLimit: cfg.RateLimitPerMinute, WindowLength: time.Minute}
	case cfg.RateLimitPerMinute < 0:
		predictionLimit = middleware.RateLimitConfig{}
	}
	predictionRateLimit := middleware.RateLimitByIP(predictionLimit)

	r.Get("/", opsHandler.Root)

	if cfg.Predictions != nil {
		predictionHandler := handler.NewPredictionHandler(cfg.Predictions, cfg.Logger)

		// Legacy paths kept for existing dashboard clients
		r.Group(func(r chi.Router) {
			r.Use(predictionRateLimit)
			r.Post("/predict_report", predictionHandler.Report)
			r.Post("/predict_risk", predictionHandler.Risk)
			r.Post("/predict_mood", predictionHandler.Mood)
			r.Post("/predict_cluster", predictionHandler.Cluster)
		})

		r.Route("/v1/predictions", func(r chi.Router) {
			r.Use(predictionRateLimit)
			r.Post("/report", predictionHandler.Report)
			r.Post("/risk", predictionHandler.Risk)
			r.Post("/mood", predictionHandler.Mood)
			r.Post("/cluster", predictionHandler.Cluster)
		})
	}

	r.Route("/v1/ops", func(r chi.Router) {
		r.Get("/health", opsHandler.HealthCheck)
		r.Get("/ready", opsHandler.ReadinessCheck)
		r.Get("/model", opsHandler.ModelInfo)
	})

	if cfg.UserData != nil {
		userDataHandler := handler.NewUserDataHandler(cfg.UserData, cfg.Logger)

		// Per-user limits are inline so {userId} is resolved when they run
		perUser := r.With(middleware.RateLimitByUserParam(middleware.StandardRateLimit))

		r.With(predictionRateLimit).Post("/v1/user-data", userDataHandler.Create)
		perUser.Get("/v1/user-data/{userId}/latest", userDataHandler.Latest)
		perUser.Get("/v1/analytics/overview/{userId}", userDataHandler.Overview)
		perUser.Get("/v1/analytics/detailed/{userId}", userDataHandler.Detailed)
	}

	return r
}

// Package api provides the HTTP API for tripcast.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/tripcast/tripcast/internal/api/handler"
	"github.com/tripcast/tripcast/internal/api/middleware"
	"github.com/tripcast/tripcast/internal/estimate"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	Metrics     *middleware.Metrics
	Routes      handler.RouteFetcher
	Estimator   *estimate.Estimator
	ModelLoaded func() bool
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing())
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.ModelLoaded)
	estimateHandler := handler.NewEstimateHandler(cfg.Routes, cfg.Estimator, cfg.Logger)

	estimateRateLimit := middleware.RateLimitByIP(middleware.EstimateRateLimit)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Estimation fans out to the routing provider - strict rate limiting.
		r.With(estimateRateLimit).Get("/estimate", estimateHandler.Estimate)
		r.With(estimateRateLimit).Post("/estimate", estimateHandler.Estimate)
	})

	return r
}

// Package main provides the entrypoint for the tripcast API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripcast/tripcast/internal/api"
	"github.com/tripcast/tripcast/internal/api/middleware"
	"github.com/tripcast/tripcast/internal/estimate"
	"github.com/tripcast/tripcast/internal/model"
	"github.com/tripcast/tripcast/internal/routing"
	"github.com/tripcast/tripcast/internal/routing/osrm"
	"github.com/tripcast/tripcast/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "tripcast-api"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting tripcast API")

	port := getEnvOrDefault("APP_PORT", "8080")
	env := getEnvOrDefault("APP_ENV", "development")
	osrmBaseURL := getEnvOrDefault("OSRM_BASE_URL", osrm.DefaultBaseURL)
	modelPath := getEnvOrDefault("MODEL_PATH", "delay_model.gob")
	otlpEndpoint := getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	ctx := context.Background()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
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

	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Load the delay model once at startup; it is read-only shared state
	// for the process lifetime.
	forest, err := model.LoadArtifact(modelPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", modelPath).Msg("failed to load delay model")
	}
	log.Info().
		Str("path", modelPath).
		Int("trees", len(forest.Trees)).
		Time("trained_at", forest.TrainedAt).
		Msg("delay model loaded")

	osrmClient := osrm.NewClient(osrm.ClientConfig{
		BaseURL: osrmBaseURL,
		Logger:  log,
	})
	routeService := routing.NewService(routing.ServiceConfig{
		Provider: osrmClient,
		Logger:   log,
	})
	log.Info().Str("provider", routeService.Name()).Msg("routing service initialized")

	estimator := estimate.NewEstimator(forest, log)

	router := api.NewRouter(api.RouterConfig{
		Version:     Version,
		BuildTime:   BuildTime,
		Logger:      log,
		Metrics:     metrics,
		Routes:      routeService,
		Estimator:   estimator,
		ModelLoaded: func() bool { return forest != nil },
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

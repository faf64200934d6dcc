package routing

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the routing service.
type ServiceConfig struct {
	// Provider is the route data provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long fetched routes stay fresh (default: 5 minutes).
	CacheTTL time.Duration

	// CacheGridSize quantizes cache keys in degrees (default: 0.001 ~ 110m).
	// Endpoints within the same grid cell share a cached route.
	CacheGridSize float64

	// StaleIfErrorTTL allows serving stale routes on provider errors
	// (default: 15 minutes).
	StaleIfErrorTTL time.Duration
}

// Service fetches routes through the provider with grid-keyed caching and a
// stale-if-error fallback.
type Service struct {
	provider        Provider
	logger          zerolog.Logger
	cacheTTL        time.Duration
	cacheGridSize   float64
	staleIfErrorTTL time.Duration

	mu    sync.RWMutex
	cache map[string]*cachedRoute
}

type cachedRoute struct {
	route     *Route
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a routing service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}
	gridSize := cfg.CacheGridSize
	if gridSize == 0 {
		gridSize = 0.001
	}
	staleTTL := cfg.StaleIfErrorTTL
	if staleTTL == 0 {
		staleTTL = 15 * time.Minute
	}

	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		cacheGridSize:   gridSize,
		staleIfErrorTTL: staleTTL,
		cache:           make(map[string]*cachedRoute),
	}
}

// FetchRoute returns the driving route between two points, from cache when
// fresh, otherwise from the provider.
func (s *Service) FetchRoute(ctx context.Context, origin, destination Coordinate) (*Route, error) {
	if err := ValidateCoordinate(origin); err != nil {
		return nil, &Error{
			Provider: s.provider.Name(),
			Code:     "INVALID_ORIGIN",
			Message:  "invalid origin coordinates",
			Err:      ErrInvalidCoordinates,
		}
	}
	if err := ValidateCoordinate(destination); err != nil {
		return nil, &Error{
			Provider: s.provider.Name(),
			Code:     "INVALID_DESTINATION",
			Message:  "invalid destination coordinates",
			Err:      ErrInvalidCoordinates,
		}
	}

	key := s.cacheKey(origin, destination)

	s.mu.RLock()
	if cached, ok := s.cache[key]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		s.logger.Debug().Str("cache_key", key).Msg("route cache hit")
		return cached.route, nil
	}
	s.mu.RUnlock()

	return s.fetch(ctx, origin, destination, key)
}

func (s *Service) fetch(ctx context.Context, origin, destination Coordinate, key string) (*Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check under the write lock to avoid duplicate provider calls.
	if cached, ok := s.cache[key]; ok && time.Now().Before(cached.expiresAt) {
		return cached.route, nil
	}

	route, err := s.provider.FetchRoute(ctx, origin, destination)
	if err != nil {
		s.logger.Error().Err(err).
			Float64("origin_lat", origin.Lat).
			Float64("origin_lng", origin.Lng).
			Float64("dest_lat", destination.Lat).
			Float64("dest_lng", destination.Lng).
			Msg("failed to fetch route")

		// Serve a stale route rather than failing if one is recent enough.
		if cached, ok := s.cache[key]; ok {
			if time.Now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
				s.logger.Warn().
					Time("fetched_at", cached.fetchedAt).
					Str("cache_key", key).
					Msg("serving stale route due to provider error")
				return cached.route, nil
			}
		}

		return nil, err
	}

	now := time.Now()
	s.cache[key] = &cachedRoute{
		route:     route,
		fetchedAt: now,
		expiresAt: now.Add(s.cacheTTL),
	}

	s.logger.Debug().
		Str("cache_key", key).
		Int("points", len(route.Points)).
		Float64("distance_km", route.DistanceKm).
		Msg("cached route")

	return route, nil
}

// Name returns the underlying provider name.
func (s *Service) Name() string {
	return s.provider.Name()
}

// cacheKey quantizes both endpoints onto the cache grid.
func (s *Service) cacheKey(origin, destination Coordinate) string {
	snap := func(v float64) float64 {
		return math.Floor(v/s.cacheGridSize) * s.cacheGridSize
	}
	return fmt.Sprintf("%.3f,%.3f:%.3f,%.3f",
		snap(origin.Lat), snap(origin.Lng),
		snap(destination.Lat), snap(destination.Lng),
	)
}

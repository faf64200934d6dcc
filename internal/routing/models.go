// Package routing provides driving-route retrieval behind a narrow
// provider interface.
package routing

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for routing operations.
var (
	// ErrProviderUnavailable indicates the routing provider is down, timed
	// out, or the circuit breaker is open.
	ErrProviderUnavailable = errors.New("routing provider unavailable")
	// ErrNoRouteFound indicates no drivable route exists between the points.
	ErrNoRouteFound = errors.New("no route found between the given points")
	// ErrInvalidCoordinates indicates coordinates outside valid ranges.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// Provider fetches a driving route between two points.
type Provider interface {
	// FetchRoute retrieves the route path and distance between two points.
	FetchRoute(ctx context.Context, origin, destination Coordinate) (*Route, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
}

// Coordinate is a geographic point.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Route is a driving route between two points.
type Route struct {
	// Points is the ordered (lat, lng) path of the route.
	Points []Coordinate

	// DistanceKm is the total route distance in kilometers.
	DistanceKm float64

	// Provider identifies the source of the route.
	Provider string

	// FetchedAt is when the route was retrieved.
	FetchedAt time.Time
}

// Error carries provider error details for routing failures.
type Error struct {
	Provider string // Provider that generated the error
	Code     string // Error code from the provider
	Message  string // Human-readable error message
	Err      error  // Underlying sentinel error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsNoRoute reports whether the error means the request completed but no
// route is available, the recoverable condition callers render as an
// empty path.
func IsNoRoute(err error) bool {
	return errors.Is(err, ErrNoRouteFound) || errors.Is(err, ErrProviderUnavailable)
}

// ValidateCoordinate checks that a coordinate is within valid ranges.
func ValidateCoordinate(c Coordinate) error {
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude %f out of range [-90, 90]", c.Lat)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("longitude %f out of range [-180, 180]", c.Lng)
	}
	return nil
}

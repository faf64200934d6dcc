// Package osrm provides a client for the OSRM route service HTTP API.
package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripcast/tripcast/internal/provider/resilience"
	"github.com/tripcast/tripcast/internal/routing"
	"github.com/tripcast/tripcast/pkg/polyline"
)

const (
	// ProviderName identifies this routing provider.
	ProviderName = "osrm"

	// DefaultBaseURL is the public OSRM demo server. Deployments should
	// point OSRM_BASE_URL at their own instance.
	DefaultBaseURL = "https://router.project-osrm.org"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the OSRM client.
type ClientConfig struct {
	// BaseURL is the OSRM base URL (optional, defaults to the demo server).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 10s).
	Timeout time.Duration

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OSRM route service client.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new OSRM client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:    ProviderName,
			Timeout: timeout,
		})
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// FetchRoute retrieves the driving route between two points.
func (c *Client) FetchRoute(ctx context.Context, origin, destination routing.Coordinate) (*routing.Route, error) {
	if err := routing.ValidateCoordinate(origin); err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "INVALID_ORIGIN",
			Message:  "invalid origin coordinates",
			Err:      routing.ErrInvalidCoordinates,
		}
	}
	if err := routing.ValidateCoordinate(destination); err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "INVALID_DESTINATION",
			Message:  "invalid destination coordinates",
			Err:      routing.ErrInvalidCoordinates,
		}
	}

	// OSRM takes lng,lat pairs in the path.
	url := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=full&geometries=geojson",
		c.baseURL, origin.Lng, origin.Lat, destination.Lng, destination.Lat)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Float64("origin_lat", origin.Lat).
		Float64("origin_lng", origin.Lng).
		Float64("dest_lat", destination.Lat).
		Float64("dest_lng", destination.Lng).
		Msg("requesting route from OSRM")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach routing provider",
			Err:      routing.ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp.StatusCode, respBody)
	}

	var osrmResp osrmResponse
	if err := json.Unmarshal(respBody, &osrmResp); err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "MALFORMED_RESPONSE",
			Message:  "routing provider returned an unreadable payload",
			Err:      routing.ErrProviderUnavailable,
		}
	}

	if osrmResp.Code != osrmCodeOK {
		return nil, c.handleServiceError(&osrmResp)
	}
	if len(osrmResp.Routes) == 0 {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "EMPTY_RESPONSE",
			Message:  "routing provider returned no routes",
			Err:      routing.ErrNoRouteFound,
		}
	}

	route := c.toRoute(&osrmResp.Routes[0])

	c.logger.Debug().
		Int("points", len(route.Points)).
		Float64("distance_km", route.DistanceKm).
		Msg("received route from OSRM")

	return route, nil
}

// handleErrorResponse maps HTTP-level failures to domain errors.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	var osrmResp osrmResponse
	if err := json.Unmarshal(body, &osrmResp); err == nil && osrmResp.Code != "" {
		return c.handleServiceError(&osrmResp)
	}

	if statusCode >= 500 {
		return &routing.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("SERVER_%d", statusCode),
			Message:  "routing provider is temporarily unavailable",
			Err:      routing.ErrProviderUnavailable,
		}
	}
	return &routing.Error{
		Provider: ProviderName,
		Code:     fmt.Sprintf("HTTP_%d", statusCode),
		Message:  fmt.Sprintf("routing provider returned status %d", statusCode),
		Err:      routing.ErrProviderUnavailable,
	}
}

// handleServiceError maps OSRM service codes to domain errors.
func (c *Client) handleServiceError(resp *osrmResponse) error {
	switch resp.Code {
	case osrmCodeNoRoute, osrmCodeNoSegment:
		return &routing.Error{
			Provider: ProviderName,
			Code:     resp.Code,
			Message:  "no route found between the given points",
			Err:      routing.ErrNoRouteFound,
		}
	case osrmCodeInvalidQuery, osrmCodeInvalidValue:
		return &routing.Error{
			Provider: ProviderName,
			Code:     resp.Code,
			Message:  resp.Message,
			Err:      routing.ErrInvalidCoordinates,
		}
	default:
		return &routing.Error{
			Provider: ProviderName,
			Code:     resp.Code,
			Message:  resp.Message,
			Err:      routing.ErrProviderUnavailable,
		}
	}
}

// toRoute converts an OSRM route to the domain model. OSRM geometry is
// GeoJSON [lng, lat]; the domain path is (lat, lng).
func (c *Client) toRoute(r *osrmRoute) *routing.Route {
	points := make([]routing.Coordinate, 0, len(r.Geometry.Coordinates))
	for _, pair := range r.Geometry.Coordinates {
		if len(pair) < 2 {
			continue
		}
		points = append(points, routing.Coordinate{Lat: pair[1], Lng: pair[0]})
	}

	distanceKm := r.Distance / 1000
	if distanceKm == 0 && len(points) > 1 {
		// Some OSRM deployments omit the summary distance.
		distanceKm = pathLengthKm(points)
	}

	return &routing.Route{
		Points:     points,
		DistanceKm: distanceKm,
		Provider:   ProviderName,
		FetchedAt:  time.Now(),
	}
}

func pathLengthKm(points []routing.Coordinate) float64 {
	coords := make([]polyline.Coordinate, len(points))
	for i, p := range points {
		coords[i] = polyline.Coordinate{Lat: p.Lat, Lng: p.Lng}
	}
	return polyline.Length(coords) / 1000
}

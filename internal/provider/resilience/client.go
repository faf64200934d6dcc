// Package resilience wraps outbound provider HTTP calls with a circuit
// breaker, per-call timeouts, and bounded retry with exponential backoff.
package resilience

import (
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned when the circuit breaker rejects a call.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// ClientConfig holds configuration for the resilient HTTP client.
type ClientConfig struct {
	// Name identifies the wrapped provider for circuit breaker naming.
	Name string

	// Timeout is the per-request timeout (default: 10s).
	Timeout time.Duration

	// MaxRetries bounds the retry attempts (default: 3).
	MaxRetries uint64

	// InitialInterval is the first retry backoff delay (default: 100ms).
	InitialInterval time.Duration

	// MaxInterval caps the retry backoff delay (default: 5s).
	MaxInterval time.Duration

	// BreakerTimeout is how long the breaker stays open before probing
	// (default: 60s).
	BreakerTimeout time.Duration
}

// Client is an HTTP client with circuit breaker and retry behavior.
// It satisfies the HTTPDoer interface of the provider clients.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	config     ClientConfig
}

// NewClient creates a resilient HTTP client with defaults applied.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 100 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 5 * time.Second
	}
	if cfg.BreakerTimeout == 0 {
		cfg.BreakerTimeout = 60 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: readyToTrip,
	})

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker,
		config:     cfg,
	}
}

// readyToTrip opens the breaker at a 50% failure rate over 5+ requests.
func readyToTrip(counts gobreaker.Counts) bool {
	failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
	return counts.Requests >= 5 && failureRatio >= 0.5
}

// Do executes the request, retrying transient failures (network errors and
// 5xx responses) with exponential backoff. Returns ErrCircuitOpen without
// retrying once the breaker has tripped.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.config.InitialInterval
	bo.MaxInterval = c.config.MaxInterval
	bo.MaxElapsedTime = 0 // retries are bounded by MaxRetries, not wall time

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.config.MaxRetries), ctx)

	var lastResp *http.Response

	operation := func() error {
		resp, err := c.breaker.Execute(func() (*http.Response, error) {
			r, err := c.httpClient.Do(req.Clone(ctx))
			if err != nil {
				return nil, err
			}
			// 5xx responses count as breaker failures and are retried.
			if r.StatusCode >= 500 {
				return r, &ServerError{StatusCode: r.StatusCode}
			}
			return r, nil
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrCircuitOpen)
			}
			if resp != nil {
				lastResp = resp
			}
			return err
		}

		lastResp = resp
		return nil
	}

	if err := backoff.Retry(operation, policy); err != nil {
		// A 5xx that exhausted retries still has a response worth surfacing.
		if lastResp != nil {
			return lastResp, nil
		}
		return nil, err
	}

	return lastResp, nil
}

// State returns the current circuit breaker state.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}

// ServerError represents an HTTP 5xx response treated as a failure.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return "server error: " + http.StatusText(e.StatusCode)
}

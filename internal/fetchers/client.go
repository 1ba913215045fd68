// Package fetchers implements the external data source for the engine:
// the NOAA OVATION probability grid and the local weather forecast. All
// outbound HTTP calls go through a shared resty client wrapped in a
// circuit breaker, so a flapping upstream trips open instead of hammering
// the network on every tick.
package fetchers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"

	"auroracast/internal/types"
)

// defaultTimeout bounds a single upstream request when the caller does
// not configure one.
const defaultTimeout = 10 * time.Second

// Client is the shared HTTP transport for all fetchers. Both upstreams
// share one breaker: a tick that cannot reach the network fails fast for
// grid and weather alike, which is exactly what the freshness controller
// wants to see.
type Client struct {
	rest    *resty.Client
	breaker *gobreaker.CircuitBreaker[*resty.Response]
}

// NewClient creates a Client with the given request timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	rest := resty.New()
	rest.SetTimeout(timeout)
	rest.SetHeader("Accept", "application/json")
	rest.SetHeader("User-Agent", "auroracast/1.0")

	cb := gobreaker.NewCircuitBreaker[*resty.Response](gobreaker.Settings{
		Name:        "fetchers",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	return &Client{
		rest:    rest,
		breaker: cb,
	}
}

// getJSON performs a GET through the breaker and unmarshals the JSON body
// into out. Failures come back as *types.AppError with the given upstream
// code; the engine treats them all as transient.
func (c *Client) getJSON(ctx context.Context, code types.ErrorCode, url string, query map[string]string, out any) error {
	_, err := c.breaker.Execute(func() (*resty.Response, error) {
		r, doErr := c.rest.R().
			SetContext(ctx).
			SetQueryParams(query).
			SetResult(out).
			Get(url)
		if doErr != nil {
			return nil, doErr
		}
		if r.IsError() {
			return r, fmt.Errorf("upstream returned %d", r.StatusCode())
		}
		return r, nil
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return types.NewAppError(
				types.ErrCodeUpstreamRateLimited,
				"circuit breaker is open; upstream unavailable",
				err,
			)
		}
		return types.NewAppError(code, fmt.Sprintf("fetching %s failed", url), err)
	}

	return nil
}

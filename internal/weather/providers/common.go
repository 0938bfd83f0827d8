package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/i474232898/weather-lookup/internal/weather"
	"github.com/sony/gobreaker"
)

// BreakerConfig controls the circuit breaker guarding one endpoint.
type BreakerConfig struct {
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
}

// DefaultBreaker mirrors the settings used for every provider endpoint.
var DefaultBreaker = BreakerConfig{
	MaxRequests: 5,
	Interval:    1 * time.Minute,
	Timeout:     2 * time.Minute,
}

func newBreaker(name string, cfg BreakerConfig) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,

		// A caller abandoning a request says nothing about the endpoint.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
}

var errNoHTTPClient = errors.New("http client not configured")

// statusError carries a non-2xx status through the breaker so it counts as a failure.
type statusError struct {
	code int
}

func (e *statusError) Error() string { return fmt.Sprintf("unexpected status code: %d", e.code) }

// doRequest executes one GET through the circuit breaker and returns the body.
// There are no retries; every failure is mapped to a *weather.NetworkError.
func doRequest(
	ctx context.Context,
	client *http.Client,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) ([]byte, error) {
	if client == nil {
		return nil, &weather.NetworkError{Kind: weather.NetworkTransportError, Cause: errNoHTTPClient}
	}

	req, err := buildRequest()
	if err != nil {
		return nil, &weather.NetworkError{Kind: weather.NetworkInvalidInput, Cause: err}
	}
	req = req.WithContext(ctx)

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			// Drain so the connection can be reused.
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil, &statusError{code: resp.StatusCode}
		}

		return io.ReadAll(resp.Body)
	})
	if err != nil {
		var se *statusError
		if errors.As(err, &se) {
			return nil, &weather.NetworkError{Kind: weather.NetworkServerError, StatusCode: se.code}
		}
		return nil, &weather.NetworkError{Kind: weather.NetworkTransportError, Cause: err}
	}

	body, ok := result.([]byte)
	if !ok {
		return nil, &weather.NetworkError{
			Kind:  weather.NetworkTransportError,
			Cause: fmt.Errorf("unexpected result type from circuit breaker"),
		}
	}
	if len(body) == 0 {
		return nil, &weather.NetworkError{Kind: weather.NetworkNoData}
	}
	return body, nil
}

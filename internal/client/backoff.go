package client

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"time"
)

// retryConfig tunes the shared retry loop
type retryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64
	Jitter         float64 // 0.0 to 1.0
}

func defaultRetryConfig() retryConfig {
	return retryConfig{
		MaxRetries:     3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
		Multiplier:     2.0,
		Jitter:         0.1,
	}
}

// retryableStatus reports whether a response status is worth retrying:
// rate limits and upstream server errors, never client errors.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func (rc retryConfig) backoff(attempt int) time.Duration {
	d := float64(rc.InitialBackoff) * math.Pow(rc.Multiplier, float64(attempt-1))
	if d > float64(rc.MaxBackoff) {
		d = float64(rc.MaxBackoff)
	}
	if rc.Jitter > 0 {
		d += d * rc.Jitter * (rand.Float64()*2 - 1)
	}
	return time.Duration(d)
}

// statusError carries a non-2xx response status through the retry loop
type statusError struct {
	Code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.Code)
}

// doWithRetry issues a request with exponential backoff. Requests are
// rebuilt per attempt so bodies stay readable. Network errors and
// retryable statuses retry; other statuses return a statusError
// immediately. The caller owns the returned body.
func doWithRetry(ctx context.Context, httpClient *http.Client, rc retryConfig, build func(ctx context.Context) (*http.Request, error)) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= rc.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(rc.backoff(attempt)):
			}
		}

		req, err := build(ctx)
		if err != nil {
			return nil, err
		}

		resp, err := httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if retryableStatus(resp.StatusCode) {
			resp.Body.Close()
			lastErr = &statusError{Code: resp.StatusCode}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			resp.Body.Close()
			return nil, &statusError{Code: resp.StatusCode}
		}

		return resp, nil
	}

	return nil, fmt.Errorf("retries exhausted: %w", lastErr)
}

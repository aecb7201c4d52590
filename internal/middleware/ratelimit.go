package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/forgo/raidledger/api/internal/model"
)

// CounterStore increments fixed-window counters shared across API replicas
type CounterStore interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (count int64, ttl time.Duration, err error)
}

// RateLimitConfig holds rate limiter configuration
type RateLimitConfig struct {
	Limit  int           // Requests per window (default 120)
	Window time.Duration // Time window (default 1 minute)
}

// RateLimit returns a middleware enforcing a fixed-window request
// budget per caller, keyed by user ID when authenticated and client IP
// otherwise. Counters live in the shared store so every replica draws
// from the same budget. When the store is unreachable the middleware
// fails open: a window of unmetered traffic beats refusing everyone.
func RateLimit(store CounterStore, cfg RateLimitConfig) Middleware {
	limit := cfg.Limit
	if limit == 0 {
		limit = 120
	}
	window := cfg.Window
	if window == 0 {
		window = time.Minute
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := GetUserID(r.Context())
			if key == "" {
				key = clientIP(r)
			}

			count, ttl, err := store.IncrWindow(r.Context(), "ratelimit:"+key, window)
			if err != nil {
				slog.Warn("rate limit store unavailable, failing open",
					slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}

			remaining := limit - int(count)
			if remaining < 0 {
				remaining = 0
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(ttl).Unix(), 10))

			if count > int64(limit) {
				retryAfter := int(ttl.Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

				model.NewRateLimitError(retryAfter).WriteJSON(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the ephemeral port from RemoteAddr so one client
// maps to one counter regardless of connection churn.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

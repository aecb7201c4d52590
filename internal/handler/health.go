package handler

import (
	"context"
	"net/http"
	"time"
)

// Health handles GET /health - liveness probe
func Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Readiness returns the handler for GET /health/ready - readiness probe
// checking the backing stores. Load balancers should route traffic only
// while this returns 200.
func Readiness(db, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := map[string]string{"database": "ok", "cache": "ok"}

		if err := db.Ping(ctx); err != nil {
			checks["database"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		if err := cache.Ping(ctx); err != nil {
			checks["cache"] = err.Error()
			status = http.StatusServiceUnavailable
		}

		body := map[string]interface{}{"status": "ok", "checks": checks}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		WriteJSON(w, status, body)
	}
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

func TestHealth_Returns200(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	Health(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestReadiness_StoresUp_Returns200(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rr := httptest.NewRecorder()

	Readiness(stubPinger{}, stubPinger{})(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("expected status 'ok', got %q", body.Status)
	}
	if body.Checks["database"] != "ok" || body.Checks["cache"] != "ok" {
		t.Errorf("expected both checks 'ok', got %v", body.Checks)
	}
}

func TestReadiness_DatabaseDown_Returns503(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rr := httptest.NewRecorder()

	Readiness(stubPinger{err: errors.New("connection refused")}, stubPinger{})(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rr.Code)
	}

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Status != "degraded" {
		t.Errorf("expected status 'degraded', got %q", body.Status)
	}
	if body.Checks["database"] != "connection refused" {
		t.Errorf("expected database check to carry the error, got %q", body.Checks["database"])
	}
	if body.Checks["cache"] != "ok" {
		t.Errorf("expected cache check 'ok', got %q", body.Checks["cache"])
	}
}

func TestReadiness_CacheDown_Returns503(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rr := httptest.NewRecorder()

	Readiness(stubPinger{}, stubPinger{err: errors.New("pool exhausted")})(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rr.Code)
	}
}

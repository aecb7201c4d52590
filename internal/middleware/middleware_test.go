package middleware

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// ============================================================================
// Chain Tests
// ============================================================================

func TestChain_MultipleMiddlewares_AppliesInOrder(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("H"))
	})

	mw := func(tag string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tag))
				next.ServeHTTP(w, r)
			})
		}
	}

	result := Chain(handler, mw("1"), mw("2"), mw("3"))

	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	rr := httptest.NewRecorder()
	result.ServeHTTP(rr, req)

	// Middlewares execute outermost-first: mw1 -> mw2 -> mw3 -> handler
	if rr.Body.String() != "123H" {
		t.Errorf("expected '123H', got %q", rr.Body.String())
	}
}

// ============================================================================
// RequestID Tests
// ============================================================================

func TestRequestID_NoHeader_GeneratesUUID(t *testing.T) {
	t.Parallel()

	handler := &captureHandler{}

	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	rr := httptest.NewRecorder()

	RequestID(handler).ServeHTTP(rr, req)

	responseID := rr.Header().Get("X-Request-ID")
	if responseID == "" {
		t.Fatal("expected X-Request-ID header in response")
	}
	if len(responseID) != 36 || strings.Count(responseID, "-") != 4 {
		t.Errorf("expected UUID-shaped request id, got %q", responseID)
	}
	if GetRequestID(handler.ctx) != responseID {
		t.Errorf("context ID (%q) should match response header (%q)", GetRequestID(handler.ctx), responseID)
	}
}

func TestRequestID_WithHeader_PreservesExisting(t *testing.T) {
	t.Parallel()

	handler := &captureHandler{}

	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	req.Header.Set("X-Request-ID", "existing-request-id")
	rr := httptest.NewRecorder()

	RequestID(handler).ServeHTTP(rr, req)

	if rr.Header().Get("X-Request-ID") != "existing-request-id" {
		t.Errorf("expected preserved ID, got %q", rr.Header().Get("X-Request-ID"))
	}
	if GetRequestID(handler.ctx) != "existing-request-id" {
		t.Errorf("expected context ID 'existing-request-id', got %q", GetRequestID(handler.ctx))
	}
}

func TestGetRequestID_Missing_ReturnsEmpty(t *testing.T) {
	t.Parallel()

	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

// ============================================================================
// Recovery Tests
// ============================================================================

func TestRecovery_NoPanic_ProceedsNormally(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("success"))
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	rr := httptest.NewRecorder()

	Recovery(handler).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK || rr.Body.String() != "success" {
		t.Errorf("expected untouched response, got %d %q", rr.Code, rr.Body.String())
	}
}

func TestRecovery_WithPanic_Returns500JSON(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("something went wrong")
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	rr := httptest.NewRecorder()

	Recovery(handler).ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type 'application/json', got %q", ct)
	}
	if !strings.Contains(rr.Body.String(), "Internal Server Error") {
		t.Errorf("expected error message in body, got %q", rr.Body.String())
	}
}

// ============================================================================
// CORS Tests
// ============================================================================

func TestCORS_AllowedOrigin_SetsHeaders(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	corsMiddleware := CORS([]string{"https://raidledger.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	req.Header.Set("Origin", "https://raidledger.example.com")
	rr := httptest.NewRecorder()

	corsMiddleware(handler).ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://raidledger.example.com" {
		t.Errorf("expected allowed origin echoed, got %q", got)
	}
	if rr.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("expected Access-Control-Allow-Methods header")
	}
	if rr.Header().Get("Access-Control-Allow-Headers") == "" {
		t.Error("expected Access-Control-Allow-Headers header")
	}
}

func TestCORS_DisallowedOrigin_NoHeader(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	corsMiddleware := CORS([]string{"https://raidledger.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	req.Header.Set("Origin", "https://evil.com")
	rr := httptest.NewRecorder()

	corsMiddleware(handler).ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no Access-Control-Allow-Origin header, got %q", got)
	}
}

func TestCORS_WildcardOrigin_AllowsAny(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	corsMiddleware := CORS([]string{"*"})

	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	req.Header.Set("Origin", "https://any-origin.com")
	rr := httptest.NewRecorder()

	corsMiddleware(handler).ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://any-origin.com" {
		t.Errorf("expected origin allowed with wildcard, got %q", got)
	}
}

func TestCORS_PreflightRequest_Returns204(t *testing.T) {
	t.Parallel()

	handler := &captureHandler{}
	corsMiddleware := CORS([]string{"https://raidledger.example.com"})

	req := httptest.NewRequest(http.MethodOptions, "/v1/events", nil)
	req.Header.Set("Origin", "https://raidledger.example.com")
	rr := httptest.NewRecorder()

	corsMiddleware(handler).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("expected status %d for preflight, got %d", http.StatusNoContent, rr.Code)
	}
	if handler.called {
		t.Error("handler should not be called for preflight request")
	}
}

// ============================================================================
// Compress Tests
// ============================================================================

func TestCompress_AcceptsGzip_CompressesResponse(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":"event:raid"}]}`))
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	rr := httptest.NewRecorder()

	Compress(handler).ServeHTTP(rr, req)

	if encoding := rr.Header().Get("Content-Encoding"); encoding != "gzip" {
		t.Fatalf("expected Content-Encoding 'gzip', got %q", encoding)
	}

	reader, err := gzip.NewReader(rr.Body)
	if err != nil {
		t.Fatalf("failed to create gzip reader: %v", err)
	}
	defer func() { _ = reader.Close() }()

	decompressed, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("failed to read decompressed data: %v", err)
	}
	if string(decompressed) != `{"data":[{"id":"event:raid"}]}` {
		t.Errorf("decompressed content mismatch: %q", string(decompressed))
	}
}

func TestCompress_NoGzipAccept_DoesNotCompress(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("uncompressed response"))
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	rr := httptest.NewRecorder()

	Compress(handler).ServeHTTP(rr, req)

	if rr.Header().Get("Content-Encoding") == "gzip" {
		t.Error("should not compress without gzip Accept-Encoding")
	}
	if rr.Body.String() != "uncompressed response" {
		t.Errorf("expected uncompressed body, got %q", rr.Body.String())
	}
}

// ============================================================================
// Logger Tests
// ============================================================================

func TestLogger_CapturesStatusAndCompletes(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("created"))
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/events", nil)
	rr := httptest.NewRecorder()

	Logger(handler).ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Errorf("expected status %d, got %d", http.StatusCreated, rr.Code)
	}
	if rr.Body.String() != "created" {
		t.Errorf("expected body 'created', got %q", rr.Body.String())
	}
}

func TestResponseWriter_CapturesStatusCode(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rr, statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusCreated)

	if rw.statusCode != http.StatusCreated {
		t.Errorf("expected captured status %d, got %d", http.StatusCreated, rw.statusCode)
	}
	if rr.Code != http.StatusCreated {
		t.Errorf("expected forwarded status %d, got %d", http.StatusCreated, rr.Code)
	}
}

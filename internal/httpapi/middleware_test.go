package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLoggingMiddlewareAssignsRequestID(t *testing.T) {
	var captured string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	resp := httptest.NewRecorder()
	LoggingMiddleware(inner).ServeHTTP(resp, req)

	if !strings.HasPrefix(captured, "req_") {
		t.Fatalf("expected generated req_ id, got %q", captured)
	}
	if resp.Code != http.StatusNoContent {
		t.Fatalf("status not propagated: %d", resp.Code)
	}
}

func TestLoggingMiddlewareKeepsIncomingRequestID(t *testing.T) {
	var captured string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = RequestIDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("X-Request-ID", "req_upstream_1")
	LoggingMiddleware(inner).ServeHTTP(httptest.NewRecorder(), req)

	if captured != "req_upstream_1" {
		t.Fatalf("expected upstream id, got %q", captured)
	}
}

func TestCORSMiddleware(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodOptions, "/register", nil)
	resp := httptest.NewRecorder()
	CORSMiddleware(inner).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("preflight: expected 200, got %d", resp.Code)
	}
	if resp.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("missing allow-origin header")
	}
	if !strings.Contains(resp.Header().Get("Access-Control-Allow-Headers"), "traceparent") {
		t.Fatal("traceparent not allowed through CORS")
	}

	req = httptest.NewRequest(http.MethodGet, "/users", nil)
	resp = httptest.NewRecorder()
	CORSMiddleware(inner).ServeHTTP(resp, req)
	if resp.Code != http.StatusTeapot {
		t.Fatalf("non-preflight request not forwarded: %d", resp.Code)
	}
}

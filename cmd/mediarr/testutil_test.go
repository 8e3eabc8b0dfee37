package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// mockServer returns an httptest.Server that asserts a GET on path and
// responds with v encoded as JSON.
func mockServer(t *testing.T, path string, v any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method, "unexpected request method")
		assert.Equal(t, path, r.URL.Path, "unexpected request path")
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(v); err != nil {
			t.Fatalf("failed to encode JSON response: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// mockError returns an httptest.Server that always responds with the given
// status code and body.
func mockError(t *testing.T, code int, message string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
		_, _ = w.Write([]byte(message))
	}))
	t.Cleanup(srv.Close)
	return srv
}

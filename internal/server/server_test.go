package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bhaveshbalendra/Inagiffy/internal/config"
)

func TestLiveness(t *testing.T) {
	s := newTestServer(&fakeGenerator{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "running")
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}

func TestUnknownPathIs404(t *testing.T) {
	s := newTestServer(&fakeGenerator{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSWildcard(t *testing.T) {
	s := newTestServer(&fakeGenerator{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSAllowList(t *testing.T) {
	cfg := testConfig()
	cfg.AllowedOrigins = []string{"https://app.example.com"}
	s := New(cfg, &fakeGenerator{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(&fakeGenerator{}, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/map/generate", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestBasePathPrefixesRoutes(t *testing.T) {
	cfg := testConfig()
	cfg.BasePath = "/learning"
	s := New(cfg, &fakeGenerator{m: sampleMap()}, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/learning/map/generate",
		strings.NewReader(`{"topic": "Go", "level": "beginner"}`))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// The old prefix no longer routes; only the catch-all GET pattern
	// matches the path, so a POST is rejected.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/map/generate",
		strings.NewReader(`{"topic": "Go", "level": "beginner"}`))
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestProductionHidesCauses(t *testing.T) {
	cfg := &config.Config{
		Port:           8080,
		BasePath:       "/api/v1",
		AllowedOrigins: []string{"*"},
		Env:            "production",
	}
	gen := &fakeGenerator{err: assert.AnError}
	s := New(cfg, gen, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/map/generate",
		strings.NewReader(`{"topic": "Go", "level": "beginner"}`))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	env := decodeEnvelope(t, rec)
	assert.Empty(t, env.Cause)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}

func TestDevelopmentSurfacesCauses(t *testing.T) {
	gen := &fakeGenerator{err: assert.AnError}
	s := newTestServer(gen, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/map/generate",
		strings.NewReader(`{"topic": "Go", "level": "beginner"}`))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, assert.AnError.Error(), env.Cause)
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLivenessHandler(t *testing.T) {
	h := NewHealthChecker(nil)

	rec := httptest.NewRecorder()
	h.LivenessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
}

func readiness(t *testing.T, h *HealthChecker) (int, HealthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec.Code, resp
}

func TestReadinessHandler(t *testing.T) {
	t.Run("services not initialized", func(t *testing.T) {
		sc := NewServerContext(context.Background(), testSites(t), (&countingFactory{}).build)
		code, resp := readiness(t, NewHealthChecker(sc))

		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "not ready", resp.Status)
		assert.Equal(t, "not initialized", resp.Checks["services"])
	})

	t.Run("ready after ensure", func(t *testing.T) {
		sc := NewServerContext(context.Background(), testSites(t), (&countingFactory{}).build)
		_, err := sc.Services().Ensure(context.Background())
		require.NoError(t, err)

		code, resp := readiness(t, NewHealthChecker(sc))
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, "ok", resp.Checks["services"])
		assert.Equal(t, "ok", resp.Checks["cache"])
	})

	t.Run("marked not ready", func(t *testing.T) {
		h := NewHealthChecker(nil)
		h.SetReady(false)

		code, resp := readiness(t, h)
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "not ready", resp.Checks["ready"])
	})

	t.Run("shutting down", func(t *testing.T) {
		sc := NewServerContext(context.Background(), testSites(t), (&countingFactory{}).build)
		_, err := sc.Services().Ensure(context.Background())
		require.NoError(t, err)
		require.NoError(t, sc.Shutdown())

		code, resp := readiness(t, NewHealthChecker(sc))
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "shutting down", resp.Checks["shutdown"])
	})

	t.Run("unreachable cache does not fail readiness", func(t *testing.T) {
		c := &closingCache{pingErr: errors.New("dial tcp: connection refused")}
		sc := NewServerContext(context.Background(), testSites(t), (&countingFactory{}).build, WithCache(c))
		_, err := sc.Services().Ensure(context.Background())
		require.NoError(t, err)

		code, resp := readiness(t, NewHealthChecker(sc))
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "unreachable", resp.Checks["cache"])
	})
}

func TestDetailedHealthHandler(t *testing.T) {
	sc := NewServerContext(context.Background(), testSites(t), (&countingFactory{}).build)
	h := NewHealthChecker(sc)

	rec := httptest.NewRecorder()
	h.DetailedHealthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz/detailed", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp DetailedHealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, []string{"vesivanov", "mebelcenter"}, resp.Sites)
	assert.Equal(t, "not initialized", resp.Services)
	assert.Equal(t, "ok", resp.Cache)
	assert.NotEmpty(t, resp.Uptime)

	h.SetReady(false)
	rec = httptest.NewRecorder()
	h.DetailedHealthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz/detailed", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRegisterHealthEndpoints(t *testing.T) {
	mux := http.NewServeMux()
	NewHealthChecker(nil).RegisterHealthEndpoints(mux)

	for _, path := range []string{"/healthz", "/readyz", "/healthz/detailed"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.NotEqual(t, http.StatusNotFound, rec.Code, path)
	}
}

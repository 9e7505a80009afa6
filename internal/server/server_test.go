package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webappmanager/internal/config"
	"webappmanager/internal/handlers"
	"webappmanager/internal/metrics"
	"webappmanager/internal/middleware"
	"webappmanager/internal/session"
)

func newTestServer(t *testing.T) *HTTPServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.AppConfig{
		Environment: "test",
		Session:     config.SessionConfig{CookieName: "session", TTL: time.Hour},
	}
	registry := metrics.New()
	set := handlers.NewHandlerSet(handlers.Deps{
		Config:  cfg,
		Log:     zerolog.Nop(),
		Codec:   session.NewCodec(cfg.Session.CookieName, ""),
		Metrics: registry,
	})
	srv, err := NewHTTPServer(cfg, zerolog.Nop(), registry, set)
	require.NoError(t, err)
	return srv
}

func TestMiddlewareStackIsApplied(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `webapp_gate_decisions_total{outcome="redirect"} 1`))
}

func TestUnknownPathRendersNotFoundPage(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "<html")
}

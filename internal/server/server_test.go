package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/cristianadrielbraun/qrstyler/internal/config"
	"github.com/cristianadrielbraun/qrstyler/internal/export"
	"github.com/cristianadrielbraun/qrstyler/internal/handlers"
	"github.com/cristianadrielbraun/qrstyler/internal/media/logo"
	"github.com/cristianadrielbraun/qrstyler/internal/metrics"
	"github.com/cristianadrielbraun/qrstyler/internal/middleware"
	"github.com/cristianadrielbraun/qrstyler/internal/store"
)

func newServer(t *testing.T, origins []string) *HTTPServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zerolog.Nop()
	m := metrics.New(nil)
	cfg := &config.AppConfig{
		Environment:      "test",
		HTTP:             config.HTTPConfig{Host: "127.0.0.1", Port: 0},
		Upload:           config.UploadConfig{MaxBytes: logo.DefaultMaxBytes},
		AllowCORSOrigins: origins,
	}
	h := handlers.New(handlers.Deps{
		Log:       log,
		Store:     store.New(log, nil, ""),
		Sanitizer: logo.NewSanitizer(log, m, logo.Options{}),
		Exporter:  export.NewDispatcher(log, m, nil),
		Metrics:   m,
	})
	return NewHTTPServer(cfg, log, m, h)
}

func TestServerMiddlewareChain(t *testing.T) {
	srv := newServer(t, nil)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestServerRecordsRequestDuration(t *testing.T) {
	srv := newServer(t, nil)

	for _, path := range []string{"/healthz", "/nowhere", "/metrics"} {
		srv.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()
	assert.Contains(t, body, `qrstyler_http_request_duration_seconds_count{method="GET",route="/healthz",status="200"} 1`)
	assert.Contains(t, body, `route="unmatched"`)
	assert.NotContains(t, body, `route="/metrics"`)
}

func TestCORS(t *testing.T) {
	t.Run("any origin", func(t *testing.T) {
		srv := newServer(t, nil)
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("Origin", "https://anywhere.example")
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("allow list", func(t *testing.T) {
		srv := newServer(t, []string{"https://qr.example.com"})

		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("Origin", "https://qr.example.com")
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		assert.Equal(t, "https://qr.example.com", w.Header().Get("Access-Control-Allow-Origin"))

		req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("Origin", "https://evil.example")
		w = httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

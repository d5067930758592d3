// Package metrics exposes Prometheus collectors for logo sanitization,
// exports and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPLatencyBuckets are latency buckets for the full request/response cycle.
var HTTPLatencyBuckets = []float64{0.01, 0.025, 0.05, 0.075, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0}

const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"

	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics holds every collector the service records to.
type Metrics struct {
	// SanitizeTotal counts logo sanitization attempts by declared type.
	SanitizeTotal *prometheus.CounterVec

	// ExportTotal counts export attempts by target.
	ExportTotal *prometheus.CounterVec

	// HTTPRequestDuration tracks full HTTP request duration.
	HTTPRequestDuration *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg. A nil reg uses a
// fresh private registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		SanitizeTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qrstyler_logo_sanitize_total",
				Help: "Total logo sanitization attempts",
			},
			[]string{"media_type", "outcome"},
		),
		ExportTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qrstyler_export_total",
				Help: "Total export attempts",
			},
			[]string{"target", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "qrstyler_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: HTTPLatencyBuckets,
			},
			[]string{"method", "route", "status"},
		),
		gatherer: reg,
	}

	reg.MustRegister(
		m.SanitizeTotal,
		m.ExportTotal,
		m.HTTPRequestDuration,
	)

	// Pre-initialize labels so the series exist before the first upload.
	for _, mt := range []string{"image/png", "image/jpeg", "image/gif", "image/webp", "image/svg+xml"} {
		m.SanitizeTotal.WithLabelValues(mt, OutcomeAccepted)
		m.SanitizeTotal.WithLabelValues(mt, OutcomeRejected)
	}

	return m
}

// ObserveSanitize records one sanitization outcome. Declared types outside
// the allowlist are folded into "other" to keep label cardinality bounded.
func (m *Metrics) ObserveSanitize(mediaType string, accepted bool) {
	if m == nil {
		return
	}
	switch mediaType {
	case "image/png", "image/jpeg", "image/gif", "image/webp", "image/svg+xml":
	default:
		mediaType = "other"
	}
	outcome := OutcomeRejected
	if accepted {
		outcome = OutcomeAccepted
	}
	m.SanitizeTotal.WithLabelValues(mediaType, outcome).Inc()
}

func (m *Metrics) ObserveExport(target string, err error) {
	if m == nil {
		return
	}
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	m.ExportTotal.WithLabelValues(target, status).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Middleware tracks request duration by matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip metrics collection for the scrape endpoint
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}

package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments for the recommendation
// service. Each instance carries its own registry so parallel tests do
// not trip over duplicate registrations.
type Metrics struct {
	registry *prometheus.Registry

	recommendationsTotal   *prometheus.CounterVec
	recommendationDuration *prometheus.HistogramVec
	coldStartTotal         *prometheus.CounterVec
	httpRequestsTotal      *prometheus.CounterVec
	httpRequestDuration    *prometheus.HistogramVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		recommendationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Total number of recommendation requests served",
		}, []string{"algorithm", "status"}),

		recommendationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Time spent computing a recommendation list",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0},
		}, []string{"algorithm"}),

		coldStartTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cold_start_requests_total",
			Help: "Total number of cold start bootstraps served",
		}, []string{"mode"}),

		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status"}),

		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0},
		}, []string{"method", "endpoint"}),
	}
}

// ObserveRecommendation records one served recommendation request.
func (m *Metrics) ObserveRecommendation(algorithm, status string, elapsed time.Duration) {
	m.recommendationsTotal.WithLabelValues(algorithm, status).Inc()
	m.recommendationDuration.WithLabelValues(algorithm).Observe(elapsed.Seconds())
}

// ObserveColdStart records one cold start bootstrap. Mode is "popular"
// when no seeds were given and "seeded" otherwise.
func (m *Metrics) ObserveColdStart(mode string) {
	m.coldStartTotal.WithLabelValues(mode).Inc()
}

// Handler exposes the registry for a /metrics endpoint.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// HTTPMiddleware instruments every request with count and latency.
func (m *Metrics) HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		status := statusLabel(c.Writer.Status())

		m.httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

func statusLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPMetrics метрики HTTP запросов
type HTTPMetrics interface {
	ObserveRequest(method, route string, status int, duration time.Duration)
}

type httpMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics registers request counters and latency histograms.
// route is the matched route template, never the raw path.
func NewHTTPMetrics(registry *prometheus.Registry) HTTPMetrics {
	return &httpMetrics{
		requests: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "The total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		duration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

func (m *httpMetrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(duration.Seconds())
}

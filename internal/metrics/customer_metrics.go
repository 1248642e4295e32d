package metrics

import (
	"time"

	"github.com/Dhoini/customer-service/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes recorded for every customer operation
const (
	OutcomeSuccess         = "success"
	OutcomeValidationError = "validation_error"
	OutcomeNotFound        = "not_found"
	OutcomeDuplicateEmail  = "duplicate_email"
	OutcomeError           = "error"
)

// CustomerMetrics интерфейс для метрик операций с клиентами
type CustomerMetrics interface {
	ObserveOperation(operation, outcome string, duration time.Duration)
}

type customerMetrics struct {
	log        *logger.Logger
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewCustomerMetrics создает новые метрики клиентов
func NewCustomerMetrics(registry *prometheus.Registry, log *logger.Logger) CustomerMetrics {
	operations := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "customer_operations_total",
			Help: "The total number of customer operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	duration := promauto.With(registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "customer_operation_duration_seconds",
			Help:    "Customer operation latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	return &customerMetrics{
		log:        log,
		operations: operations,
		duration:   duration,
	}
}

// ObserveOperation записывает результат и длительность операции
func (m *customerMetrics) ObserveOperation(operation, outcome string, duration time.Duration) {
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.duration.WithLabelValues(operation).Observe(duration.Seconds())
}

// NopCustomerMetrics discards every observation
type NopCustomerMetrics struct{}

func (NopCustomerMetrics) ObserveOperation(string, string, time.Duration) {}

package metrics

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/Dhoini/customer-service/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CustomerCounter returns how many customers the store holds
type CustomerCounter func(ctx context.Context) (int64, error)

// RuntimeMetrics periodically samples the Go runtime and the store size
type RuntimeMetrics interface {
	Sample(ctx context.Context)
	Run(ctx context.Context, interval time.Duration)
}

type runtimeMetrics struct {
	log     *logger.Logger
	counter CustomerCounter

	goroutines prometheus.Gauge
	memory     *prometheus.GaugeVec
	gcRuns     prometheus.Counter
	customers  prometheus.Gauge

	mu     sync.Mutex
	lastGC uint32
}

// NewRuntimeMetrics регистрирует метрики рантайма. counter may be nil, then
// the customers_stored gauge stays at zero.
func NewRuntimeMetrics(registry *prometheus.Registry, log *logger.Logger, counter CustomerCounter) RuntimeMetrics {
	factory := promauto.With(registry)

	return &runtimeMetrics{
		log:     log,
		counter: counter,
		goroutines: factory.NewGauge(prometheus.GaugeOpts{
			Name: "customer_service_goroutines",
			Help: "Number of goroutines at the last sample",
		}),
		memory: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "customer_service_memory_bytes",
			Help: "Go memory statistics at the last sample",
		}, []string{"kind"}),
		gcRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "customer_service_gc_runs_total",
			Help: "Completed garbage collection cycles",
		}),
		customers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "customer_service_customers_stored",
			Help: "Customers held by the configured store at the last sample",
		}),
	}
}

// Sample records one snapshot
func (m *runtimeMetrics) Sample(ctx context.Context) {
	m.goroutines.Set(float64(runtime.NumGoroutine()))

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.memory.WithLabelValues("heap_alloc").Set(float64(ms.HeapAlloc))
	m.memory.WithLabelValues("heap_inuse").Set(float64(ms.HeapInuse))
	m.memory.WithLabelValues("sys").Set(float64(ms.Sys))

	// NumGC is cumulative
	m.mu.Lock()
	if ms.NumGC > m.lastGC {
		m.gcRuns.Add(float64(ms.NumGC - m.lastGC))
		m.lastGC = ms.NumGC
	}
	m.mu.Unlock()

	if m.counter == nil {
		return
	}
	n, err := m.counter(ctx)
	if err != nil {
		if ctx.Err() == nil {
			m.log.Warnw("Failed to count stored customers", "error", err)
		}
		return
	}
	m.customers.Set(float64(n))
}

// Run samples every interval until ctx is done
func (m *runtimeMetrics) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	m.log.Infow("Runtime metrics sampling started", "interval", interval)

	m.Sample(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.log.Info("Runtime metrics sampling stopped")
			return
		case <-ticker.C:
			m.Sample(ctx)
		}
	}
}

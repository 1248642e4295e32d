package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dhoini/customer-service/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCustomerMetricsCountsOutcomes(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewCustomerMetrics(registry, logger.NewNop())

	m.ObserveOperation("create", OutcomeSuccess, 5*time.Millisecond)
	m.ObserveOperation("create", OutcomeSuccess, 7*time.Millisecond)
	m.ObserveOperation("create", OutcomeDuplicateEmail, time.Millisecond)

	cm := m.(*customerMetrics)
	if got := testutil.ToFloat64(cm.operations.WithLabelValues("create", OutcomeSuccess)); got != 2 {
		t.Errorf("create/success = %v, want 2", got)
	}
	if got := testutil.ToFloat64(cm.operations.WithLabelValues("create", OutcomeDuplicateEmail)); got != 1 {
		t.Errorf("create/duplicate_email = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(cm.duration); n != 1 {
		t.Errorf("duration series = %d, want 1", n)
	}
}

func TestHTTPMetricsUsesRouteLabel(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewHTTPMetrics(registry)

	m.ObserveRequest("GET", "/api/v1/customers/:id", 200, time.Millisecond)
	m.ObserveRequest("GET", "/api/v1/customers/:id", 404, time.Millisecond)

	hm := m.(*httpMetrics)
	if got := testutil.ToFloat64(hm.requests.WithLabelValues("GET", "/api/v1/customers/:id", "404")); got != 1 {
		t.Errorf("404 count = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(hm.requests); n != 2 {
		t.Errorf("request series = %d, want 2", n)
	}
}

func TestRuntimeMetricsSample(t *testing.T) {
	registry := prometheus.NewRegistry()
	stored := int64(42)
	m := NewRuntimeMetrics(registry, logger.NewNop(), func(context.Context) (int64, error) {
		return stored, nil
	})

	m.Sample(context.Background())
	rm := m.(*runtimeMetrics)
	if got := testutil.ToFloat64(rm.goroutines); got <= 0 {
		t.Errorf("goroutines = %v, want > 0", got)
	}
	if got := testutil.ToFloat64(rm.memory.WithLabelValues("sys")); got <= 0 {
		t.Errorf("sys memory = %v, want > 0", got)
	}
	if got := testutil.ToFloat64(rm.customers); got != 42 {
		t.Errorf("customers stored = %v, want 42", got)
	}
}

func TestRuntimeMetricsKeepsLastCountOnError(t *testing.T) {
	registry := prometheus.NewRegistry()
	fail := false
	m := NewRuntimeMetrics(registry, logger.NewNop(), func(context.Context) (int64, error) {
		if fail {
			return 0, errors.New("store down")
		}
		return 7, nil
	})

	m.Sample(context.Background())
	fail = true
	m.Sample(context.Background())

	if got := testutil.ToFloat64(m.(*runtimeMetrics).customers); got != 7 {
		t.Errorf("customers stored = %v, want the last good value 7", got)
	}
}

func TestRuntimeMetricsRunStopsWithContext(t *testing.T) {
	m := NewRuntimeMetrics(prometheus.NewRegistry(), logger.NewNop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, time.Millisecond)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCheckoutMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCheckoutMetrics(reg)

	m.IncOrdersCreated()
	m.IncOrdersCreated()
	m.IncSubmitFailure("timeout")
	m.IncSubmitFailure("")
	m.IncStatusChange("shipped")
	m.ObserveSubmitDuration(120 * time.Millisecond)

	if got := testutil.ToFloat64(m.ordersCreated); got != 2 {
		t.Fatalf("expected 2 created orders, got %v", got)
	}
	if got := testutil.ToFloat64(m.submitFailures.WithLabelValues("timeout")); got != 1 {
		t.Fatalf("expected 1 timeout failure, got %v", got)
	}
	if got := testutil.ToFloat64(m.submitFailures.WithLabelValues("unknown")); got != 1 {
		t.Fatalf("expected blank kind to normalize, got %v", got)
	}
	if got := testutil.ToFloat64(m.statusChanges.WithLabelValues("shipped")); got != 1 {
		t.Fatalf("expected 1 shipped change, got %v", got)
	}
}

func TestCheckoutMetricsNilSafe(t *testing.T) {
	var m *CheckoutMetrics
	m.IncOrdersCreated()
	m.IncSubmitFailure("x")
	m.IncStatusChange("y")
	m.ObserveSubmitDuration(time.Second)

	empty := NewCheckoutMetrics(nil)
	empty.IncOrdersCreated()
}

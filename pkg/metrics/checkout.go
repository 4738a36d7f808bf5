package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records checkout and order lifecycle counters.
type CheckoutMetrics struct {
	ordersCreated  prometheus.Counter
	submitFailures *prometheus.CounterVec
	submitDuration prometheus.Histogram
	statusChanges  *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders created from confirmed checkouts.",
	})
	submitFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_submit_failures_total",
		Help: "Failed checkout confirmations by failure kind.",
	}, []string{"kind"})
	submitDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_submit_duration_seconds",
		Help:    "Duration of order submission in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	statusChanges := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_changes_total",
		Help: "Admin order status changes by target status.",
	}, []string{"status"})
	reg.MustRegister(ordersCreated, submitFailures, submitDuration, statusChanges)
	return &CheckoutMetrics{
		ordersCreated:  ordersCreated,
		submitFailures: submitFailures,
		submitDuration: submitDuration,
		statusChanges:  statusChanges,
	}
}

// IncOrdersCreated increments the created-orders counter.
func (m *CheckoutMetrics) IncOrdersCreated() {
	if m == nil || m.ordersCreated == nil {
		return
	}
	m.ordersCreated.Inc()
}

// IncSubmitFailure increments the failure counter for the given kind.
func (m *CheckoutMetrics) IncSubmitFailure(kind string) {
	if m == nil || m.submitFailures == nil {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	m.submitFailures.WithLabelValues(kind).Inc()
}

// ObserveSubmitDuration records how long an order submission took.
func (m *CheckoutMetrics) ObserveSubmitDuration(duration time.Duration) {
	if m == nil || m.submitDuration == nil {
		return
	}
	m.submitDuration.Observe(duration.Seconds())
}

// IncStatusChange increments the status-change counter for the target status.
func (m *CheckoutMetrics) IncStatusChange(status string) {
	if m == nil || m.statusChanges == nil {
		return
	}
	if status == "" {
		status = "unknown"
	}
	m.statusChanges.WithLabelValues(status).Inc()
}

package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for business-level observability
// of the checkout and order pipeline.
type BusinessMetrics struct {
	// Checkout funnel
	EligibilityBlocked *prometheus.CounterVec
	LimitViolations    prometheus.Counter

	// Orders
	OrdersCreated      *prometheus.CounterVec
	OrderValue         prometheus.Histogram
	OrdersCancelled    prometheus.Counter
	OrderStatusChanges *prometheus.CounterVec

	// Partial-failure tracking. A compensating delete means the order row
	// went in but its items did not; frequency here signals upstream
	// reliability problems.
	CompensatingDeletes prometheus.Counter
	ReconciledOrders    prometheus.Counter

	// Events
	EventsPublished *prometheus.CounterVec
	EventsFailed    *prometheus.CounterVec
}

// NewBusinessMetrics creates and registers all business metrics.
func NewBusinessMetrics(namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "cedar"
	}

	subsystem := "business"

	return &BusinessMetrics{
		EligibilityBlocked: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_blocked_total",
				Help:      "Checkout attempts blocked by the eligibility gate",
			},
			[]string{"account_type", "reason"},
		),
		LimitViolations: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "individual_limit_violations_total",
				Help:      "Individual-tier order limit violations",
			},
		),
		OrdersCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_created_total",
				Help:      "Total orders created",
			},
			[]string{"account_type", "source"},
		),
		OrderValue: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_value",
				Help:      "Order total distribution in whole currency units",
				Buckets:   []float64{1000, 5000, 10000, 25000, 50000, 100000, 250000, 500000, 1000000},
			},
		),
		OrdersCancelled: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_cancelled_total",
				Help:      "Total orders cancelled",
			},
		),
		OrderStatusChanges: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_status_changes_total",
				Help:      "Order status transitions by target status",
			},
			[]string{"status"},
		),
		CompensatingDeletes: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_compensating_deletes_total",
				Help:      "Orders deleted after item insertion failed",
			},
		),
		ReconciledOrders: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_reconciled_total",
				Help:      "Empty orders removed by the reconciliation sweep",
			},
		),
		EventsPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "events_published_total",
				Help:      "Order events published",
			},
			[]string{"subject"},
		),
		EventsFailed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "events_failed_total",
				Help:      "Order event publish failures",
			},
			[]string{"subject"},
		),
	}
}

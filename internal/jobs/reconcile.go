// Package jobs holds the periodic maintenance loops that run alongside the
// HTTP server.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/cedarelevator/commerce/internal/service"
	"github.com/cedarelevator/commerce/internal/telemetry"
)

// ReconcilerConfig configures the empty-order reconciliation sweep.
type ReconcilerConfig struct {
	// Interval between sweeps.
	Interval time.Duration

	// MinAge is how old an empty order must be before it is removed.
	// Must comfortably exceed the worst-case gap between the order and
	// item inserts so in-flight checkouts are never swept.
	MinAge time.Duration
}

// Reconciler removes orders that have no items. The order-creation workflow
// deletes its own order when item insertion fails, but a crash between the
// two inserts leaves an empty order behind; this sweep is the operational
// backstop.
type Reconciler struct {
	config  ReconcilerConfig
	orders  service.OrderStore
	metrics *telemetry.BusinessMetrics
	logger  *slog.Logger
}

// NewReconciler creates a Reconciler with defaults applied.
func NewReconciler(orders service.OrderStore, config ReconcilerConfig, metrics *telemetry.BusinessMetrics, logger *slog.Logger) *Reconciler {
	if config.Interval <= 0 {
		config.Interval = 10 * time.Minute
	}
	if config.MinAge <= 0 {
		config.MinAge = 15 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		config:  config,
		orders:  orders,
		metrics: metrics,
		logger:  logger,
	}
}

// Run sweeps on the configured interval until the context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	r.logger.Info("order reconciler started",
		"interval", r.config.Interval, "min_age", r.config.MinAge)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("order reconciler stopped")
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *Reconciler) sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-r.config.MinAge)

	removed, err := r.orders.DeleteEmptyOrdersOlderThan(ctx, cutoff)
	if err != nil {
		r.logger.Error("empty-order sweep failed", "error", err)
		return
	}
	if removed > 0 {
		// Every removal here means a checkout crashed mid-write.
		r.logger.Warn("removed empty orders left by interrupted checkouts", "count", removed)
		if r.metrics != nil {
			r.metrics.ReconciledOrders.Add(float64(removed))
		}
	}
}

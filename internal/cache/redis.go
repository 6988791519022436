// Package cache invalidates the storefront's cached checkout views.
package cache

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// revisionKey is the shared revision counter. The storefront embeds the
// current revision in its checkout-view cache keys, so bumping it orphans
// every cached view at once.
const revisionKey = "checkout:views:rev"

// ViewInvalidator implements service.CacheInvalidator on Redis.
type ViewInvalidator struct {
	rdb    *redis.Client
	logger *slog.Logger
}

// NewViewInvalidator creates a ViewInvalidator for the given address.
func NewViewInvalidator(addr string, logger *slog.Logger) *ViewInvalidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &ViewInvalidator{
		rdb:    redis.NewClient(&redis.Options{Addr: addr}),
		logger: logger,
	}
}

// InvalidateCheckoutViews bumps the revision counter. Failures are logged
// and swallowed; a stale cached view is preferable to a failed address save.
func (v *ViewInvalidator) InvalidateCheckoutViews(ctx context.Context) {
	if err := v.rdb.Incr(ctx, revisionKey).Err(); err != nil {
		v.logger.Warn("checkout view invalidation failed", "error", err)
	}
}

// Close releases the underlying Redis connection.
func (v *ViewInvalidator) Close() error {
	return v.rdb.Close()
}

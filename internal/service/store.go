package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cedarelevator/commerce/internal/domain"
)

// OrderStore is the persistence boundary for orders and their items.
// Implemented by the postgres package; tests use in-memory fakes.
type OrderStore interface {
	// InsertOrder persists a new order row.
	InsertOrder(ctx context.Context, order domain.Order) error

	// InsertOrderItems persists all items for an order in one statement.
	InsertOrderItems(ctx context.Context, items []domain.OrderItem) error

	// DeleteOrder removes an order row. Only the order-creation workflow's
	// compensating cleanup calls this; cancellation is a status, not a delete.
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error

	// GetOrder retrieves an order by ID.
	GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)

	// GetOrderItems retrieves the items of an order.
	GetOrderItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error)

	// ListOrdersForUser retrieves a user's orders, newest first.
	ListOrdersForUser(ctx context.Context, userID string) ([]domain.Order, error)

	// UpdateOrderStatus writes a new status and bumps updated_at.
	// Returns the number of rows matched.
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (int64, error)

	// SetTrackingInfo writes tracking fields, moves the order to shipped,
	// and bumps updated_at. Returns the number of rows matched.
	SetTrackingInfo(ctx context.Context, orderID uuid.UUID, trackingNumber, carrier string) (int64, error)

	// CancelOrder moves the order to cancelled with a reason and bumps
	// updated_at. Returns the number of rows matched.
	CancelOrder(ctx context.Context, orderID uuid.UUID, reason string) (int64, error)

	// DeleteEmptyOrdersOlderThan removes orders with no items created before
	// the cutoff. Operational safeguard for interrupted order creation.
	DeleteEmptyOrdersOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// AddressStore is the persistence boundary for business addresses.
type AddressStore interface {
	// ListByBusiness returns active addresses for a business,
	// default-first then newest-first.
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]domain.BusinessAddress, error)

	// GetIndividualDefault returns the user's single default address record,
	// or nil when none exists.
	GetIndividualDefault(ctx context.Context, userID string) (*domain.BusinessAddress, error)

	// Create inserts an address. When the address is the new default, the
	// sibling defaults for the same (business_id, address_type) are cleared
	// in the same transaction.
	Create(ctx context.Context, addr domain.BusinessAddress) (*domain.BusinessAddress, error)

	// Update applies a whitelisted patch to the caller's own address.
	// Returns the number of rows matched; a foreign address matches zero
	// rows and is indistinguishable from a missing one.
	Update(ctx context.Context, userID string, addressID uuid.UUID, patch domain.AddressPatch) (int64, error)

	// SoftDelete deactivates the caller's own address.
	// Returns the number of rows matched.
	SoftDelete(ctx context.Context, userID string, addressID uuid.UUID) (int64, error)
}

// BusinessStore resolves the business profile behind an identity.
type BusinessStore interface {
	// GetProfileByUser returns the user's business profile, or nil when the
	// account has none (an individual buyer).
	GetProfileByUser(ctx context.Context, userID string) (*domain.BusinessProfile, error)
}

// QuoteDetail is what the quote collaborator returns for an approved quote.
type QuoteDetail struct {
	ID       string
	UserID   string
	Status   string
	Items    []domain.CheckoutItem
	Discount int64
}

// Quote statuses relevant to checkout.
const (
	QuoteApproved = "approved"
)

// QuoteSource loads quote contents for quote-based checkout.
type QuoteSource interface {
	GetQuote(ctx context.Context, quoteID, userID string) (*QuoteDetail, error)
}

// IdempotencyStore reserves client-supplied idempotency keys so a rapid
// double-submit of the same checkout creates at most one order.
type IdempotencyStore interface {
	// Reserve claims the key. Returns false when the key was already taken.
	Reserve(ctx context.Context, key string) (bool, error)

	// Release frees a reserved key so a failed creation can be retried.
	Release(ctx context.Context, key string) error
}

// EventPublisher emits order lifecycle events for the notification and
// inventory collaborators. Publishing is fire-and-forget: failures are
// logged by callers and never block the triggering operation.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, order domain.Order, items []domain.OrderItem) error
	PublishOrderCancelled(ctx context.Context, orderID uuid.UUID, reason string) error
	PublishOrderShipped(ctx context.Context, orderID uuid.UUID, trackingNumber, carrier string) error
}

// CacheInvalidator tells the page layer to drop cached checkout views after
// address changes. External collaborator; a failed invalidation is logged
// and ignored.
type CacheInvalidator interface {
	InvalidateCheckoutViews(ctx context.Context)
}

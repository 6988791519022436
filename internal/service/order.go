package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/cedarelevator/commerce/internal/checkout"
	"github.com/cedarelevator/commerce/internal/domain"
	"github.com/cedarelevator/commerce/internal/telemetry"
)

// OrderService manages order lifecycle after creation: status transitions,
// tracking attachment, and cancellation.
type OrderService interface {
	// GetOrder retrieves an order with its items.
	GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDetail, error)

	// ListOrdersForUser retrieves a user's orders, newest first.
	ListOrdersForUser(ctx context.Context, userID string) ([]domain.Order, error)

	// UpdateOrderStatus moves an order to a new status. Transitions are
	// validated against the status adjacency table.
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error

	// AddTrackingInfo attaches tracking fields and moves the order to
	// shipped. Calling it again overwrites the previous values.
	AddTrackingInfo(ctx context.Context, orderID uuid.UUID, trackingNumber, carrier string) error

	// CancelOrder cancels an order with a reason. Cancelling an already
	// cancelled order is a no-op success.
	CancelOrder(ctx context.Context, orderID uuid.UUID, reason string) error

	// BulkUpdateOrderStatus applies the same status to many orders,
	// best effort. Callers must handle "N of M succeeded".
	BulkUpdateOrderStatus(ctx context.Context, orderIDs []uuid.UUID, status domain.OrderStatus) (*BulkStatusResult, error)
}

// OrderDetail aggregates an order with its items.
type OrderDetail struct {
	Order domain.Order       `json:"order"`
	Items []domain.OrderItem `json:"items"`
}

// BulkStatusResult reports the outcome of a bulk status update.
type BulkStatusResult struct {
	Updated  int64               `json:"updated"`
	Failures []BulkStatusFailure `json:"failures,omitempty"`
}

// BulkStatusFailure identifies one order that could not be updated and why.
type BulkStatusFailure struct {
	OrderID uuid.UUID `json:"order_id"`
	Reason  string    `json:"reason"`
}

type orderService struct {
	orders  OrderStore
	events  EventPublisher
	metrics *telemetry.BusinessMetrics
	logger  *slog.Logger
}

// NewOrderService creates an OrderService.
func NewOrderService(orders OrderStore, events EventPublisher, metrics *telemetry.BusinessMetrics, logger *slog.Logger) OrderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &orderService{
		orders:  orders,
		events:  events,
		metrics: metrics,
		logger:  logger,
	}
}

func (s *orderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDetail, error) {
	const op = "order.get"

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load order")
	}
	if order == nil {
		return nil, domain.NotFound(op, "order", orderID.String())
	}

	items, err := s.orders.GetOrderItems(ctx, orderID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load order items")
	}

	return &OrderDetail{Order: *order, Items: items}, nil
}

func (s *orderService) ListOrdersForUser(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := s.orders.ListOrdersForUser(ctx, userID)
	if err != nil {
		return nil, domain.Internal(err, "order.list", "failed to list orders")
	}
	return orders, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	const op = "order.update_status"

	if !domain.ValidOrderStatus(status) {
		return domain.Invalid(op, fmt.Sprintf("unknown order status %q", status))
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Internal(err, op, "failed to load order")
	}
	if order == nil {
		return domain.NotFound(op, "order", orderID.String())
	}

	if order.OrderStatus == status {
		// Re-applying the current status is a no-op success.
		return nil
	}
	if !domain.CanTransition(order.OrderStatus, status) {
		return domain.Invalid(op, fmt.Sprintf("cannot move order from %s to %s", order.OrderStatus, status))
	}

	if _, err := s.orders.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return domain.Internal(err, op, "failed to update order status")
	}

	if s.metrics != nil {
		s.metrics.OrderStatusChanges.WithLabelValues(string(status)).Inc()
	}
	s.logger.Info("order status updated", "order_id", orderID, "from", order.OrderStatus, "to", status)
	return nil
}

func (s *orderService) AddTrackingInfo(ctx context.Context, orderID uuid.UUID, trackingNumber, carrier string) error {
	const op = "order.add_tracking"

	trackingNumber = strings.TrimSpace(trackingNumber)
	carrier = strings.TrimSpace(checkout.SanitizeText(carrier))
	if trackingNumber == "" {
		return ErrMissingTrackingNumber
	}
	if carrier == "" {
		return ErrMissingTrackingCarrier
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Internal(err, op, "failed to load order")
	}
	if order == nil {
		return domain.NotFound(op, "order", orderID.String())
	}

	// Attaching tracking implies shipment. Orders already shipped accept
	// corrected tracking values; terminal orders do not.
	if order.OrderStatus != domain.OrderShipped && !domain.CanTransition(order.OrderStatus, domain.OrderShipped) {
		return domain.Invalid(op, fmt.Sprintf("cannot ship an order in status %s", order.OrderStatus))
	}

	if _, err := s.orders.SetTrackingInfo(ctx, orderID, trackingNumber, carrier); err != nil {
		return domain.Internal(err, op, "failed to save tracking info")
	}

	if s.events != nil {
		if err := s.events.PublishOrderShipped(ctx, orderID, trackingNumber, carrier); err != nil {
			s.logger.Warn("order shipped event publish failed", "order_id", orderID, "error", err)
		}
	}

	s.logger.Info("tracking info attached", "order_id", orderID, "carrier", carrier)
	return nil
}

func (s *orderService) CancelOrder(ctx context.Context, orderID uuid.UUID, reason string) error {
	const op = "order.cancel"

	reason = strings.TrimSpace(checkout.SanitizeText(reason))
	if reason == "" {
		return ErrMissingCancelReason
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Internal(err, op, "failed to load order")
	}
	if order == nil {
		return domain.NotFound(op, "order", orderID.String())
	}

	if order.OrderStatus == domain.OrderCancelled {
		// Idempotent: a second cancellation succeeds without repeating
		// side effects.
		return nil
	}
	if !domain.CanTransition(order.OrderStatus, domain.OrderCancelled) {
		return domain.Invalid(op, fmt.Sprintf("cannot cancel an order in status %s", order.OrderStatus))
	}

	if _, err := s.orders.CancelOrder(ctx, orderID, reason); err != nil {
		return domain.Internal(err, op, "failed to cancel order")
	}

	// Inventory restoration listens for this event.
	if s.events != nil {
		if err := s.events.PublishOrderCancelled(ctx, orderID, reason); err != nil {
			s.logger.Warn("order cancelled event publish failed", "order_id", orderID, "error", err)
		}
	}

	if s.metrics != nil {
		s.metrics.OrdersCancelled.Inc()
	}
	s.logger.Info("order cancelled", "order_id", orderID, "reason", reason)
	return nil
}

func (s *orderService) BulkUpdateOrderStatus(ctx context.Context, orderIDs []uuid.UUID, status domain.OrderStatus) (*BulkStatusResult, error) {
	const op = "order.bulk_update_status"

	if !domain.ValidOrderStatus(status) {
		return nil, domain.Invalid(op, fmt.Sprintf("unknown order status %q", status))
	}

	result := &BulkStatusResult{}
	for _, orderID := range orderIDs {
		if err := s.UpdateOrderStatus(ctx, orderID, status); err != nil {
			result.Failures = append(result.Failures, BulkStatusFailure{
				OrderID: orderID,
				Reason:  domain.ErrorMessage(err),
			})
			continue
		}
		result.Updated++
	}

	if len(result.Failures) > 0 {
		s.logger.Warn("bulk status update partially failed",
			"status", status,
			"updated", result.Updated,
			"failed", len(result.Failures))
	}
	return result, nil
}

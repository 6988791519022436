package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cedarelevator/commerce/internal/domain"
)

// OrderStore implements service.OrderStore on PostgreSQL.
type OrderStore struct {
	pool *pgxpool.Pool
}

// NewOrderStore creates an OrderStore.
func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{pool: pool}
}

const orderColumns = `
	id, order_number, clerk_user_id, business_id, source, source_id,
	shipping_method, shipping_address_id, pickup_location_id,
	payment_method, payment_status, order_status,
	subtotal, tax, shipping_cost, discount, total_amount, currency_code,
	notes, shipping_tracking_number, shipping_provider, cancellation_reason,
	created_at, updated_at`

// InsertOrder persists a new order row.
func (s *OrderStore) InsertOrder(ctx context.Context, order domain.Order) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO orders (
			id, order_number, clerk_user_id, business_id, source, source_id,
			shipping_method, shipping_address_id, pickup_location_id,
			payment_method, payment_status, order_status,
			subtotal, tax, shipping_cost, discount, total_amount, currency_code,
			notes, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9,
			$10, $11, $12,
			$13, $14, $15, $16, $17, $18,
			$19, $20, $21
		)`,
		pgUUID(order.ID),
		order.OrderNumber,
		order.UserID,
		pgUUIDPtr(order.BusinessID),
		string(order.Source),
		order.SourceID,
		order.ShippingMethod,
		pgUUIDPtr(order.ShippingAddressID),
		pgTextPtr(order.PickupLocationID),
		order.PaymentMethod,
		string(order.PaymentStatus),
		string(order.OrderStatus),
		order.Subtotal,
		order.Tax,
		order.ShippingCost,
		order.Discount,
		order.TotalAmount,
		order.CurrencyCode,
		order.Notes,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

// InsertOrderItems persists all items for an order in one COPY.
func (s *OrderStore) InsertOrderItems(ctx context.Context, items []domain.OrderItem) error {
	if len(items) == 0 {
		return errors.New("order has no items")
	}

	_, err := s.pool.CopyFrom(ctx,
		pgx.Identifier{"order_items"},
		[]string{"id", "order_id", "product_id", "product_name", "quantity", "unit_price", "total_price"},
		pgx.CopyFromSlice(len(items), func(i int) ([]any, error) {
			item := items[i]
			return []any{
				pgUUID(item.ID),
				pgUUID(item.OrderID),
				item.ProductID,
				item.ProductName,
				item.Quantity,
				item.UnitPrice,
				item.TotalPrice,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to insert order items: %w", err)
	}
	return nil
}

// DeleteOrder removes an order row (compensating cleanup only).
func (s *OrderStore) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, pgUUID(orderID))
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return nil
}

// GetOrder retrieves an order by ID. Returns nil when no row matches.
func (s *OrderStore) GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, pgUUID(orderID))

	order, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// GetOrderItems retrieves the items of an order.
func (s *OrderStore) GetOrderItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, unit_price, total_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY product_name`, pgUUID(orderID))
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var (
			item          domain.OrderItem
			id, orderUUID pgtype.UUID
		)
		if err := rows.Scan(&id, &orderUUID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.UnitPrice, &item.TotalPrice); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		item.ID = uuid.UUID(id.Bytes)
		item.OrderID = uuid.UUID(orderUUID.Bytes)
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListOrdersForUser retrieves a user's orders, newest first.
func (s *OrderStore) ListOrdersForUser(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE clerk_user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

// UpdateOrderStatus writes a new status and bumps updated_at.
func (s *OrderStore) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE orders
		SET order_status = $2, updated_at = now()
		WHERE id = $1`,
		pgUUID(orderID), string(status))
	if err != nil {
		return 0, fmt.Errorf("failed to update order status: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SetTrackingInfo writes tracking fields and moves the order to shipped.
// Repeated calls overwrite the previous values.
func (s *OrderStore) SetTrackingInfo(ctx context.Context, orderID uuid.UUID, trackingNumber, carrier string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE orders
		SET shipping_tracking_number = $2,
		    shipping_provider = $3,
		    order_status = $4,
		    updated_at = now()
		WHERE id = $1`,
		pgUUID(orderID), trackingNumber, carrier, string(domain.OrderShipped))
	if err != nil {
		return 0, fmt.Errorf("failed to set tracking info: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CancelOrder moves the order to cancelled with a reason.
func (s *OrderStore) CancelOrder(ctx context.Context, orderID uuid.UUID, reason string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE orders
		SET order_status = $2, cancellation_reason = $3, updated_at = now()
		WHERE id = $1`,
		pgUUID(orderID), string(domain.OrderCancelled), reason)
	if err != nil {
		return 0, fmt.Errorf("failed to cancel order: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteEmptyOrdersOlderThan removes orders with no items created before the
// cutoff. Cleans up after a crash between the order and item inserts.
func (s *OrderStore) DeleteEmptyOrdersOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM orders o
		WHERE o.created_at < $1
		  AND NOT EXISTS (SELECT 1 FROM order_items i WHERE i.order_id = o.id)`,
		cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete empty orders: %w", err)
	}
	return tag.RowsAffected(), nil
}

// scanOrder maps one row in orderColumns order onto a domain.Order.
func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		order                        domain.Order
		id, businessID, shipAddrID   pgtype.UUID
		pickupLocationID             pgtype.Text
		source, payStatus, ordStatus string
		createdAt, updatedAt         pgtype.Timestamptz
	)

	err := row.Scan(
		&id, &order.OrderNumber, &order.UserID, &businessID, &source, &order.SourceID,
		&order.ShippingMethod, &shipAddrID, &pickupLocationID,
		&order.PaymentMethod, &payStatus, &ordStatus,
		&order.Subtotal, &order.Tax, &order.ShippingCost, &order.Discount,
		&order.TotalAmount, &order.CurrencyCode,
		&order.Notes, &order.ShippingTrackingNumber, &order.ShippingProvider,
		&order.CancellationReason,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.ID = uuid.UUID(id.Bytes)
	order.BusinessID = uuidPtr(businessID)
	order.ShippingAddressID = uuidPtr(shipAddrID)
	order.PickupLocationID = textPtr(pickupLocationID)
	order.Source = domain.CheckoutSource(source)
	order.PaymentStatus = domain.PaymentStatus(payStatus)
	order.OrderStatus = domain.OrderStatus(ordStatus)
	order.CreatedAt = createdAt.Time
	order.UpdatedAt = updatedAt.Time
	return &order, nil
}

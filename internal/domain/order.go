package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus values for the order fulfillment state machine.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// PaymentStatus values for an order's payment.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// PaymentMethodCOD is collect-on-delivery, the only method accepted by the
// current checkout policy. The allow-list lives in configuration.
const PaymentMethodCOD = "cod"

// orderStatusTransitions is the explicit adjacency table for order status
// changes. Cancellation is only reachable before shipment; delivered and
// cancelled are terminal.
var orderStatusTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderProcessing, OrderShipped, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered},
	OrderDelivered:  {},
	OrderCancelled:  {},
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s OrderStatus) bool {
	_, ok := orderStatusTransitions[s]
	return ok
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderStatusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Order is the persisted order row. Field names match the order table read
// directly by the admin dashboard, so renames here are breaking changes.
type Order struct {
	ID                     uuid.UUID      `json:"id"`
	OrderNumber            string         `json:"order_number"`
	UserID                 string         `json:"clerk_user_id"`
	BusinessID             *uuid.UUID     `json:"business_id,omitempty"`
	Source                 CheckoutSource `json:"source"`
	SourceID               string         `json:"source_id"`
	ShippingMethod         string         `json:"shipping_method"`
	ShippingAddressID      *uuid.UUID     `json:"shipping_address_id,omitempty"`
	PickupLocationID       *string        `json:"pickup_location_id,omitempty"`
	PaymentMethod          string         `json:"payment_method"`
	PaymentStatus          PaymentStatus  `json:"payment_status"`
	OrderStatus            OrderStatus    `json:"order_status"`
	Subtotal               int64          `json:"subtotal"`
	Tax                    int64          `json:"tax"`
	ShippingCost           int64          `json:"shipping_cost"`
	Discount               int64          `json:"discount"`
	TotalAmount            int64          `json:"total_amount"`
	CurrencyCode           string         `json:"currency_code"`
	Notes                  string         `json:"notes,omitempty"`
	ShippingTrackingNumber string         `json:"shipping_tracking_number,omitempty"`
	ShippingProvider       string         `json:"shipping_provider,omitempty"`
	CancellationReason     string         `json:"cancellation_reason,omitempty"`
	CreatedAt              time.Time      `json:"created_at"`
	UpdatedAt              time.Time      `json:"updated_at"`
}

// OrderItem is one line of an order, snapshotted at creation time.
// An order never exists without at least one item in steady state.
type OrderItem struct {
	ID          uuid.UUID `json:"id"`
	OrderID     uuid.UUID `json:"order_id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int32     `json:"quantity"`
	UnitPrice   int64     `json:"unit_price"`
	TotalPrice  int64     `json:"total_price"`
}

// Shipping methods accepted at order creation.
const (
	ShippingDoorstep = "doorstep"
	ShippingPickup   = "pickup"
)

// Package events publishes order lifecycle events for downstream
// collaborators (notifications, inventory restoration). Publishing is
// fire-and-forget: the commerce core logs failures and moves on, so a
// broker outage never blocks checkout or fulfillment.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/cedarelevator/commerce/internal/domain"
	"github.com/cedarelevator/commerce/internal/telemetry"
)

// Subjects for order events.
const (
	SubjectOrderCreated   = "orders.created"
	SubjectOrderCancelled = "orders.cancelled"
	SubjectOrderShipped   = "orders.shipped"
)

// OrderCreatedEvent is the payload for SubjectOrderCreated.
type OrderCreatedEvent struct {
	EventID     string             `json:"event_id"`
	OrderID     string             `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	UserID      string             `json:"clerk_user_id"`
	Source      string             `json:"source"`
	TotalAmount int64              `json:"total_amount"`
	Currency    string             `json:"currency_code"`
	Items       []domain.OrderItem `json:"items"`
	Timestamp   time.Time          `json:"timestamp"`
}

// OrderCancelledEvent is the payload for SubjectOrderCancelled. Inventory
// restoration consumes this.
type OrderCancelledEvent struct {
	EventID   string    `json:"event_id"`
	OrderID   string    `json:"order_id"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderShippedEvent is the payload for SubjectOrderShipped.
type OrderShippedEvent struct {
	EventID        string    `json:"event_id"`
	OrderID        string    `json:"order_id"`
	TrackingNumber string    `json:"tracking_number"`
	Carrier        string    `json:"carrier"`
	Timestamp      time.Time `json:"timestamp"`
}

// NATSPublisher publishes order events to NATS.
type NATSPublisher struct {
	conn    *nats.Conn
	metrics *telemetry.BusinessMetrics
}

// NewNATSPublisher connects to NATS at the given URL.
func NewNATSPublisher(url string, metrics *telemetry.BusinessMetrics) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	return &NATSPublisher{conn: conn, metrics: metrics}, nil
}

// Close drains the connection.
func (p *NATSPublisher) Close() {
	if p.conn != nil {
		p.conn.Drain()
	}
}

// PublishOrderCreated emits an order-created event.
func (p *NATSPublisher) PublishOrderCreated(ctx context.Context, order domain.Order, items []domain.OrderItem) error {
	return p.publish(SubjectOrderCreated, OrderCreatedEvent{
		EventID:     uuid.NewString(),
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Source:      string(order.Source),
		TotalAmount: order.TotalAmount,
		Currency:    order.CurrencyCode,
		Items:       items,
		Timestamp:   time.Now().UTC(),
	})
}

// PublishOrderCancelled emits an order-cancelled event.
func (p *NATSPublisher) PublishOrderCancelled(ctx context.Context, orderID uuid.UUID, reason string) error {
	return p.publish(SubjectOrderCancelled, OrderCancelledEvent{
		EventID:   uuid.NewString(),
		OrderID:   orderID.String(),
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	})
}

// PublishOrderShipped emits an order-shipped event.
func (p *NATSPublisher) PublishOrderShipped(ctx context.Context, orderID uuid.UUID, trackingNumber, carrier string) error {
	return p.publish(SubjectOrderShipped, OrderShippedEvent{
		EventID:        uuid.NewString(),
		OrderID:        orderID.String(),
		TrackingNumber: trackingNumber,
		Carrier:        carrier,
		Timestamp:      time.Now().UTC(),
	})
}

func (p *NATSPublisher) publish(subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", subject, err)
	}

	if err := p.conn.Publish(subject, data); err != nil {
		if p.metrics != nil {
			p.metrics.EventsFailed.WithLabelValues(subject).Inc()
		}
		return fmt.Errorf("failed to publish %s event: %w", subject, err)
	}

	if p.metrics != nil {
		p.metrics.EventsPublished.WithLabelValues(subject).Inc()
	}
	return nil
}

// NoopPublisher discards events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderCreated(ctx context.Context, order domain.Order, items []domain.OrderItem) error {
	return nil
}

func (NoopPublisher) PublishOrderCancelled(ctx context.Context, orderID uuid.UUID, reason string) error {
	return nil
}

func (NoopPublisher) PublishOrderShipped(ctx context.Context, orderID uuid.UUID, trackingNumber, carrier string) error {
	return nil
}

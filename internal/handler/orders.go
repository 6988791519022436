package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/cedarelevator/commerce/internal/domain"
	"github.com/cedarelevator/commerce/internal/service"
)

// OrderHandler serves order retrieval and the fulfillment lifecycle:
// status transitions, tracking, and cancellation.
type OrderHandler struct {
	service service.OrderService
	logger  *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(svc service.OrderService, logger *slog.Logger) *OrderHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderHandler{
		service: svc,
		logger:  logger,
	}
}

// List handles GET /api/v1/orders
//
// Returns the caller's orders, newest first.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := domain.IdentityFromContext(r.Context())
	if !identity.Authenticated() {
		ErrorResponse(w, r, domain.Unauthorized("order.list", "authentication required"))
		return
	}

	orders, err := h.service.ListOrdersForUser(r.Context(), identity.UserID)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	respondData(w, http.StatusOK, orders)
}

// Get handles GET /api/v1/orders/{id}
//
// Customers see their own orders only; someone else's order looks like it
// does not exist. Back-office staff (gateway-asserted admin role) can read
// any order.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity := domain.IdentityFromContext(r.Context())
	if !identity.Authenticated() {
		ErrorResponse(w, r, domain.Unauthorized("order.get", "authentication required"))
		return
	}

	orderID, err := parseOrderID(r)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	detail, err := h.service.GetOrder(r.Context(), orderID)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	if !identity.Admin() && detail.Order.UserID != identity.UserID {
		ErrorResponse(w, r, domain.NotFound("order.get", "order", orderID.String()))
		return
	}

	respondData(w, http.StatusOK, detail)
}

// updateStatusRequest is the payload for PATCH /api/v1/orders/{id}/status.
type updateStatusRequest struct {
	Status string `json:"order_status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}

// UpdateStatus handles PATCH /api/v1/orders/{id}/status
//
// Moves an order to a new status. Illegal transitions are rejected;
// repeating the current status is a no-op success. Staff only.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r, "order.update_status") {
		return
	}

	orderID, err := parseOrderID(r)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	if err := h.service.UpdateOrderStatus(r.Context(), orderID, domain.OrderStatus(req.Status)); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	respondData(w, http.StatusOK, map[string]string{
		"order_status": req.Status,
	})
}

// trackingRequest is the payload for POST /api/v1/orders/{id}/tracking.
type trackingRequest struct {
	TrackingNumber string `json:"shipping_tracking_number" validate:"required,max=100"`
	Carrier        string `json:"shipping_provider" validate:"required,max=100"`
}

// AddTracking handles POST /api/v1/orders/{id}/tracking
//
// Attaches tracking details and marks the order shipped. Posting again
// replaces the previous tracking values. Staff only.
func (h *OrderHandler) AddTracking(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r, "order.add_tracking") {
		return
	}

	orderID, err := parseOrderID(r)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	var req trackingRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	if err := h.service.AddTrackingInfo(r.Context(), orderID, req.TrackingNumber, req.Carrier); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	respondData(w, http.StatusOK, map[string]string{
		"order_status":             string(domain.OrderShipped),
		"shipping_tracking_number": req.TrackingNumber,
		"shipping_provider":        req.Carrier,
	})
}

// cancelRequest is the payload for POST /api/v1/orders/{id}/cancel.
type cancelRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// Cancel handles POST /api/v1/orders/{id}/cancel
//
// Customers cancel their own orders; staff can cancel any order. As with
// Get, someone else's order looks like it does not exist.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	identity := domain.IdentityFromContext(r.Context())
	if !identity.Authenticated() {
		ErrorResponse(w, r, domain.Unauthorized("order.cancel", "authentication required"))
		return
	}

	orderID, err := parseOrderID(r)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	var req cancelRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	if !identity.Admin() {
		detail, err := h.service.GetOrder(r.Context(), orderID)
		if err != nil {
			ErrorResponse(w, r, err)
			return
		}
		if detail.Order.UserID != identity.UserID {
			ErrorResponse(w, r, domain.NotFound("order.cancel", "order", orderID.String()))
			return
		}
	}

	if err := h.service.CancelOrder(r.Context(), orderID, req.Reason); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	respondData(w, http.StatusOK, map[string]string{
		"order_status": string(domain.OrderCancelled),
	})
}

// bulkStatusRequest is the payload for POST /api/v1/orders/bulk-status.
type bulkStatusRequest struct {
	OrderIDs []string `json:"order_ids" validate:"required,min=1,max=100,dive,uuid"`
	Status   string   `json:"order_status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}

// BulkUpdateStatus handles POST /api/v1/orders/bulk-status
//
// Applies the same status to many orders, best effort. The response reports
// how many updated and which orders failed, so partial success is explicit.
// Staff only.
func (h *OrderHandler) BulkUpdateStatus(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r, "order.bulk_status") {
		return
	}

	var req bulkStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	orderIDs := make([]uuid.UUID, 0, len(req.OrderIDs))
	for _, raw := range req.OrderIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			ErrorResponse(w, r, domain.Invalid("order.bulk_status", "order_ids contains an invalid ID"))
			return
		}
		orderIDs = append(orderIDs, id)
	}

	result, err := h.service.BulkUpdateOrderStatus(r.Context(), orderIDs, domain.OrderStatus(req.Status))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	respondData(w, http.StatusOK, result)
}

// requireAdmin writes the error response and returns false unless the
// caller carries the gateway-asserted admin role.
func (h *OrderHandler) requireAdmin(w http.ResponseWriter, r *http.Request, op string) bool {
	identity := domain.IdentityFromContext(r.Context())
	if !identity.Authenticated() {
		ErrorResponse(w, r, domain.Unauthorized(op, "authentication required"))
		return false
	}
	if !identity.Admin() {
		ErrorResponse(w, r, domain.Forbidden(op, "staff access required"))
		return false
	}
	return true
}

func parseOrderID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, domain.Invalid("order.parse_id", "order ID is not valid")
	}
	return id, nil
}

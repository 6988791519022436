package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/cedarelevator/commerce/internal/domain"
	"github.com/cedarelevator/commerce/internal/service"
)

// IdempotencyKeyHeader carries the client's submission nonce for order
// creation. Optional; without it double-submits are not deduplicated.
const IdempotencyKeyHeader = "Idempotency-Key"

// CheckoutHandler serves eligibility checks, quote pricing previews, and
// order creation.
type CheckoutHandler struct {
	service service.CheckoutService
	logger  *slog.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(svc service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CheckoutHandler{
		service: svc,
		logger:  logger,
	}
}

// Eligibility handles GET /api/v1/checkout/eligibility?source=cart|quote
//
// Returns the eligibility decision for the caller's account and the
// requested checkout source. Always 200 when the check itself ran; the
// decision (including "not eligible" and its reason) lives in the body so
// the storefront can render the right guidance.
func (h *CheckoutHandler) Eligibility(w http.ResponseWriter, r *http.Request) {
	source := domain.CheckoutSource(r.URL.Query().Get("source"))
	if !source.Valid() {
		ErrorResponse(w, r, domain.Invalid("checkout.eligibility", "source must be cart or quote"))
		return
	}

	identity := domain.IdentityFromContext(r.Context())
	result, err := h.service.CheckEligibility(r.Context(), identity, source)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	respondData(w, http.StatusOK, result)
}

// quotePreviewResponse is the priced review of a quote before ordering.
type quotePreviewResponse struct {
	Items   []domain.CheckoutItem  `json:"items"`
	Summary domain.CheckoutSummary `json:"summary"`
}

// PreviewQuote handles GET /api/v1/checkout/quotes/{id}/preview
//
// Prices an approved quote for the checkout review page. The summary shown
// here is recomputed during order creation; clients never submit amounts.
func (h *CheckoutHandler) PreviewQuote(w http.ResponseWriter, r *http.Request) {
	identity := domain.IdentityFromContext(r.Context())

	items, summary, err := h.service.PriceQuote(r.Context(), identity, r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	respondData(w, http.StatusOK, quotePreviewResponse{Items: items, Summary: summary})
}

// createOrderRequest is the payload for POST /api/v1/orders.
type createOrderRequest struct {
	Source            string  `json:"source" validate:"required,oneof=cart quote"`
	QuoteID           string  `json:"quote_id" validate:"required_if=Source quote,omitempty,uuid"`
	ShippingMethod    string  `json:"shipping_method" validate:"required,oneof=doorstep pickup"`
	ShippingAddressID *string `json:"shipping_address_id" validate:"omitempty,uuid"`
	PickupLocationID  *string `json:"pickup_location_id" validate:"omitempty,max=64"`
	PaymentMethod     string  `json:"payment_method" validate:"required,max=32"`
	Notes             string  `json:"notes" validate:"max=2000"`
}

// CreateOrder handles POST /api/v1/orders
//
// Runs the full order-creation workflow. A client may pass an
// Idempotency-Key header to guard against double-submits.
func (h *CheckoutHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	params := service.CreateOrderParams{
		Identity:         domain.IdentityFromContext(r.Context()),
		Source:           domain.CheckoutSource(req.Source),
		SourceID:         req.QuoteID,
		ShippingMethod:   req.ShippingMethod,
		PickupLocationID: req.PickupLocationID,
		PaymentMethod:    req.PaymentMethod,
		Notes:            req.Notes,
		IdempotencyKey:   r.Header.Get(IdempotencyKeyHeader),
	}
	if req.ShippingAddressID != nil {
		id, err := uuid.Parse(*req.ShippingAddressID)
		if err != nil {
			ErrorResponse(w, r, domain.Invalid("checkout.create_order", "shipping_address_id is not a valid ID"))
			return
		}
		params.ShippingAddressID = &id
	}

	confirmation, err := h.service.CreateOrder(r.Context(), params)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	respondData(w, http.StatusCreated, confirmation)
}

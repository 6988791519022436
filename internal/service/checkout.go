package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cedarelevator/commerce/internal/checkout"
	"github.com/cedarelevator/commerce/internal/domain"
	"github.com/cedarelevator/commerce/internal/telemetry"
)

// CheckoutService gates checkout by account type and turns approved sources
// into persisted orders.
type CheckoutService interface {
	// ClassifyAccount resolves the caller's account type from the identity
	// and its business profile. Recomputed on every request; verification
	// state can change between page loads, so prior answers are never
	// trusted.
	ClassifyAccount(ctx context.Context, identity domain.Identity) (domain.AccountType, *domain.BusinessProfile, error)

	// CheckEligibility classifies the account and runs the eligibility gate
	// for the given source.
	CheckEligibility(ctx context.Context, identity domain.Identity, source domain.CheckoutSource) (domain.Eligibility, error)

	// PriceQuote loads a quote's items and prices them. Used by the
	// checkout review page; the same computation runs again inside
	// CreateOrder, never cached across requests.
	PriceQuote(ctx context.Context, identity domain.Identity, quoteID string) ([]domain.CheckoutItem, domain.CheckoutSummary, error)

	// CreateOrder runs the full order-creation workflow.
	CreateOrder(ctx context.Context, params CreateOrderParams) (*OrderConfirmation, error)
}

// CreateOrderParams contains parameters for creating an order.
type CreateOrderParams struct {
	Identity          domain.Identity
	Source            domain.CheckoutSource
	SourceID          string
	ShippingMethod    string
	ShippingAddressID *uuid.UUID
	PickupLocationID  *string
	PaymentMethod     string
	Notes             string

	// IdempotencyKey is a client-supplied nonce. When present, a duplicate
	// submission with the same key is rejected instead of creating a
	// second order.
	IdempotencyKey string
}

// OrderConfirmation is returned to the caller on successful creation.
type OrderConfirmation struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
}

// CheckoutConfig is the checkout policy block from configuration.
type CheckoutConfig struct {
	GSTPercentage         int64
	FlatShipping          int64
	Currency              string
	AllowedPaymentMethods []string
	Limits                checkout.IndividualLimits
}

type checkoutService struct {
	orders     OrderStore
	businesses BusinessStore
	quotes     QuoteSource
	idem       IdempotencyStore
	events     EventPublisher
	pricer     *checkout.Pricer
	limits     checkout.IndividualLimits
	payments   []string
	metrics    *telemetry.BusinessMetrics
	logger     *slog.Logger
}

// NewCheckoutService creates a CheckoutService.
// idem may be nil when no idempotency backend is configured; keys are then
// accepted but not enforced, matching the original behavior.
func NewCheckoutService(
	orders OrderStore,
	businesses BusinessStore,
	quotes QuoteSource,
	idem IdempotencyStore,
	events EventPublisher,
	cfg CheckoutConfig,
	metrics *telemetry.BusinessMetrics,
	logger *slog.Logger,
) CheckoutService {
	if logger == nil {
		logger = slog.Default()
	}
	return &checkoutService{
		orders:     orders,
		businesses: businesses,
		quotes:     quotes,
		idem:       idem,
		events:     events,
		pricer:     checkout.NewPricer(cfg.GSTPercentage, cfg.FlatShipping, cfg.Currency),
		limits:     cfg.Limits,
		payments:   cfg.AllowedPaymentMethods,
		metrics:    metrics,
		logger:     logger,
	}
}

func (s *checkoutService) ClassifyAccount(ctx context.Context, identity domain.Identity) (domain.AccountType, *domain.BusinessProfile, error) {
	if !identity.Authenticated() {
		return domain.AccountGuest, nil, nil
	}

	profile, err := s.businesses.GetProfileByUser(ctx, identity.UserID)
	if err != nil {
		return "", nil, domain.Internal(err, "checkout.classify", "failed to load business profile")
	}

	return domain.ClassifyAccount(identity.UserID, profile), profile, nil
}

func (s *checkoutService) CheckEligibility(ctx context.Context, identity domain.Identity, source domain.CheckoutSource) (domain.Eligibility, error) {
	if !source.Valid() {
		return domain.Eligibility{}, domain.Invalid("checkout.eligibility", fmt.Sprintf("unknown checkout source %q", source))
	}

	account, _, err := s.ClassifyAccount(ctx, identity)
	if err != nil {
		return domain.Eligibility{}, err
	}

	decision := checkout.Eligibility(account, source)
	if !decision.Eligible {
		s.countBlocked(account, decision.Reason)
	}
	return decision, nil
}

func (s *checkoutService) PriceQuote(ctx context.Context, identity domain.Identity, quoteID string) ([]domain.CheckoutItem, domain.CheckoutSummary, error) {
	if !identity.Authenticated() {
		return nil, domain.CheckoutSummary{}, domain.Unauthorized("checkout.price_quote", "Sign in to continue to checkout")
	}

	quote, err := s.loadQuote(ctx, identity.UserID, quoteID)
	if err != nil {
		return nil, domain.CheckoutSummary{}, err
	}

	return quote.Items, s.pricer.SummaryWithDiscount(quote.Items, quote.Discount), nil
}

// CreateOrder orchestrates eligibility, pricing, limits, and persistence.
//
// Flow:
//  1. Require an authenticated identity.
//  2. Classify the account from its business profile.
//  3. Eligibility gate, failing fast before any data loads.
//  4. Payment method must be on the configured allow-list (COD only today).
//  5. Load items from the source; cart sourcing is not built yet.
//  6. Individual accounts run the order-limits validator; any violation
//     aborts the whole order.
//  7. Reserve the idempotency key, when one was supplied.
//  8. Insert the order with pending status, then its items.
//  9. If item insertion fails, delete the just-created order so no empty
//     order survives, and release the idempotency reservation.
//  10. Publish the order-created event; a publish failure is logged and
//     never fails the order.
func (s *checkoutService) CreateOrder(ctx context.Context, params CreateOrderParams) (*OrderConfirmation, error) {
	const op = "checkout.create_order"

	if !params.Identity.Authenticated() {
		return nil, domain.Unauthorized(op, "Sign in to continue to checkout")
	}

	account, profile, err := s.ClassifyAccount(ctx, params.Identity)
	if err != nil {
		return nil, err
	}

	if !params.Source.Valid() {
		return nil, domain.Invalid(op, fmt.Sprintf("unknown checkout source %q", params.Source))
	}

	if decision := checkout.Eligibility(account, params.Source); !decision.Eligible {
		s.countBlocked(account, decision.Reason)
		return nil, domain.Errorf(domain.ENOTELIGIBLE, op, "%s", decision.Message)
	}

	if !s.paymentAllowed(params.PaymentMethod) {
		return nil, domain.Errorf(domain.EPAYMENT, op, "Unsupported payment method %q", params.PaymentMethod)
	}

	if params.ShippingMethod != domain.ShippingDoorstep && params.ShippingMethod != domain.ShippingPickup {
		return nil, domain.Invalid(op, fmt.Sprintf("unknown shipping method %q", params.ShippingMethod))
	}
	if params.ShippingMethod == domain.ShippingDoorstep && params.ShippingAddressID == nil {
		return nil, domain.Invalid(op, "shipping address is required for doorstep delivery")
	}
	if params.ShippingMethod == domain.ShippingPickup && (params.PickupLocationID == nil || *params.PickupLocationID == "") {
		return nil, domain.Invalid(op, "pickup location is required for pickup orders")
	}

	items, summary, err := s.loadSource(ctx, params)
	if err != nil {
		return nil, err
	}

	if account == domain.AccountIndividual {
		if result := s.limits.Validate(items, summary.Total); !result.Valid {
			if s.metrics != nil {
				s.metrics.LimitViolations.Add(float64(len(result.Violations)))
			}
			return nil, domain.Errorf(domain.ELIMIT, op, "%s", strings.Join(result.Violations, "; "))
		}
	}

	reserved, err := s.reserveKey(ctx, params.IdempotencyKey)
	if err != nil {
		return nil, err
	}

	order := domain.Order{
		ID:                uuid.New(),
		OrderNumber:       newOrderNumber(),
		UserID:            params.Identity.UserID,
		Source:            params.Source,
		SourceID:          params.SourceID,
		ShippingMethod:    params.ShippingMethod,
		ShippingAddressID: params.ShippingAddressID,
		PickupLocationID:  params.PickupLocationID,
		PaymentMethod:     params.PaymentMethod,
		PaymentStatus:     domain.PaymentPending,
		OrderStatus:       domain.OrderPending,
		Subtotal:          summary.Subtotal,
		Tax:               summary.Tax,
		ShippingCost:      summary.Shipping,
		Discount:          summary.Discount,
		TotalAmount:       summary.Total,
		CurrencyCode:      summary.Currency,
		Notes:             checkout.SanitizeText(params.Notes),
		CreatedAt:         time.Now().UTC(),
		UpdatedAt:         time.Now().UTC(),
	}
	if profile != nil {
		businessID := profile.ID
		order.BusinessID = &businessID
	}

	orderItems := make([]domain.OrderItem, len(items))
	for i, item := range items {
		orderItems[i] = domain.OrderItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   item.ID,
			ProductName: item.Title,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.UnitPrice * int64(item.Quantity),
		}
	}

	if err := s.orders.InsertOrder(ctx, order); err != nil {
		s.releaseKey(ctx, params.IdempotencyKey, reserved)
		return nil, domain.Internal(err, op, "failed to save order")
	}

	if err := s.orders.InsertOrderItems(ctx, orderItems); err != nil {
		// Compensating cleanup: an order must never exist without items.
		// The cleanup itself is worth tracking even when it succeeds;
		// frequency here signals upstream reliability problems.
		if delErr := s.orders.DeleteOrder(ctx, order.ID); delErr != nil {
			s.logger.Error("compensating order delete failed, empty order left for reconciliation",
				"order_id", order.ID, "error", delErr)
		} else {
			s.logger.Warn("order items insert failed, order rolled back",
				"order_id", order.ID, "error", err)
		}
		if s.metrics != nil {
			s.metrics.CompensatingDeletes.Inc()
		}
		s.releaseKey(ctx, params.IdempotencyKey, reserved)
		return nil, domain.Internal(err, op, "failed to save order items")
	}

	if s.metrics != nil {
		s.metrics.OrdersCreated.WithLabelValues(string(account), string(params.Source)).Inc()
		s.metrics.OrderValue.Observe(float64(order.TotalAmount))
	}

	if s.events != nil {
		if err := s.events.PublishOrderCreated(ctx, order, orderItems); err != nil {
			s.logger.Warn("order created event publish failed",
				"order_id", order.ID, "error", err)
		}
	}

	s.logger.Info("order created",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"account_type", account,
		"total_amount", order.TotalAmount)

	return &OrderConfirmation{OrderID: order.ID, OrderNumber: order.OrderNumber}, nil
}

// loadSource resolves items and pricing from the checkout source.
func (s *checkoutService) loadSource(ctx context.Context, params CreateOrderParams) ([]domain.CheckoutItem, domain.CheckoutSummary, error) {
	switch params.Source {
	case domain.SourceQuote:
		quote, err := s.loadQuote(ctx, params.Identity.UserID, params.SourceID)
		if err != nil {
			return nil, domain.CheckoutSummary{}, err
		}
		return quote.Items, s.pricer.SummaryWithDiscount(quote.Items, quote.Discount), nil

	case domain.SourceCart:
		// Deliberate gap: cart sourcing must fail loudly rather than
		// succeed with empty data.
		return nil, domain.CheckoutSummary{}, ErrCartCheckoutUnbuilt
	}

	return nil, domain.CheckoutSummary{}, domain.Invalid("checkout.load_source", fmt.Sprintf("unknown checkout source %q", params.Source))
}

func (s *checkoutService) loadQuote(ctx context.Context, userID, quoteID string) (*QuoteDetail, error) {
	const op = "checkout.load_quote"

	quote, err := s.quotes.GetQuote(ctx, quoteID, userID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load quote")
	}
	if quote == nil {
		return nil, domain.NotFound(op, "quote", quoteID)
	}
	if quote.Status != QuoteApproved {
		return nil, ErrQuoteNotApproved
	}
	if len(quote.Items) == 0 {
		return nil, ErrQuoteEmpty
	}
	return quote, nil
}

func (s *checkoutService) paymentAllowed(method string) bool {
	for _, allowed := range s.payments {
		if method == allowed {
			return true
		}
	}
	return false
}

// reserveKey claims the idempotency key. Reservation fails open on backend
// errors: availability of checkout wins over duplicate suppression.
func (s *checkoutService) reserveKey(ctx context.Context, key string) (bool, error) {
	if key == "" || s.idem == nil {
		return false, nil
	}

	ok, err := s.idem.Reserve(ctx, key)
	if err != nil {
		s.logger.Warn("idempotency reservation unavailable, proceeding without dedupe", "error", err)
		return false, nil
	}
	if !ok {
		return false, ErrDuplicateSubmission
	}
	return true, nil
}

func (s *checkoutService) releaseKey(ctx context.Context, key string, reserved bool) {
	if !reserved || s.idem == nil {
		return
	}
	if err := s.idem.Release(ctx, key); err != nil {
		s.logger.Warn("idempotency key release failed", "key", key, "error", err)
	}
}

func (s *checkoutService) countBlocked(account domain.AccountType, reason string) {
	if s.metrics != nil {
		s.metrics.EligibilityBlocked.WithLabelValues(string(account), reason).Inc()
	}
}

// newOrderNumber generates an order number unique under concurrent load:
// a millisecond timestamp plus a random suffix, so two submissions in the
// same millisecond still differ.
func newOrderNumber() string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), suffix)
}

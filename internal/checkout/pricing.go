package checkout

import "github.com/cedarelevator/commerce/internal/domain"

// Pricer computes checkout summaries from line items.
//
// All amounts are whole currency units kept as integers; GST is applied with
// half-up integer rounding so repeated pricing of the same items is
// bit-identical. The GST percentage, flat shipping cost, and currency come
// from configuration, not constants, so policy changes never touch call
// sites.
type Pricer struct {
	gstPercentage int64
	flatShipping  int64
	currency      string
}

// NewPricer creates a pricing engine for the given tax and shipping policy.
func NewPricer(gstPercentage, flatShipping int64, currency string) *Pricer {
	return &Pricer{
		gstPercentage: gstPercentage,
		flatShipping:  flatShipping,
		currency:      currency,
	}
}

// Summary prices the items with no discount applied.
// An empty item list yields an all-zero summary; an empty cart is a valid
// (if useless) state to price.
func (p *Pricer) Summary(items []domain.CheckoutItem) domain.CheckoutSummary {
	return p.SummaryWithDiscount(items, 0)
}

// SummaryWithDiscount prices the items with a discount supplied by the
// promotion subsystem. Total = Subtotal + Tax + Shipping - Discount.
func (p *Pricer) SummaryWithDiscount(items []domain.CheckoutItem, discount int64) domain.CheckoutSummary {
	var subtotal int64
	for _, item := range items {
		subtotal += item.UnitPrice * int64(item.Quantity)
	}

	tax := roundPercent(subtotal, p.gstPercentage)

	shipping := int64(0)
	if len(items) > 0 {
		shipping = p.flatShipping
	}

	return domain.CheckoutSummary{
		Subtotal:      subtotal,
		Tax:           tax,
		GSTPercentage: p.gstPercentage,
		Shipping:      shipping,
		Discount:      discount,
		Total:         subtotal + tax + shipping - discount,
		Currency:      p.currency,
	}
}

// roundPercent returns round(amount * pct / 100) with half-up rounding,
// using integer arithmetic only.
func roundPercent(amount, pct int64) int64 {
	return (amount*pct + 50) / 100
}

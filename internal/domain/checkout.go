package domain

// CheckoutSource identifies where checkout line items come from.
type CheckoutSource string

const (
	SourceCart  CheckoutSource = "cart"
	SourceQuote CheckoutSource = "quote"
)

// Valid reports whether the source is one of the known checkout sources.
func (s CheckoutSource) Valid() bool {
	return s == SourceCart || s == SourceQuote
}

// CheckoutItem is a single line item loaded from a cart or quote.
// Quantities and prices are validated upstream (stock, price lists);
// this core only re-checks individual-tier limits.
//
// Monetary amounts are whole currency units (no paise), kept as integers
// to avoid floating-point drift.
type CheckoutItem struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Quantity  int32  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Subtotal  int64  `json:"subtotal"`
}

// CheckoutSummary is the derived pricing breakdown for a set of items.
// It is a value object recomputed on demand, never persisted on its own.
// Invariant: Total = Subtotal + Tax + Shipping - Discount.
type CheckoutSummary struct {
	Subtotal      int64  `json:"subtotal"`
	Tax           int64  `json:"tax"`
	GSTPercentage int64  `json:"gst_percentage"`
	Shipping      int64  `json:"shipping"`
	Discount      int64  `json:"discount"`
	Total         int64  `json:"total"`
	Currency      string `json:"currency"`
}

// Eligibility reasons returned when checkout is blocked.
const (
	ReasonNotAuthenticated     = "not_authenticated"
	ReasonBusinessRequired     = "business_required"
	ReasonVerificationRequired = "verification_required"
)

// Eligibility is the gate's decision for an (account type, source) pair.
// A blocked combination is an expected, UI-drivable outcome, so it is a
// result value rather than an error.
type Eligibility struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
	Message  string `json:"message,omitempty"`
}

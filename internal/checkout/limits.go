package checkout

import (
	"fmt"

	"github.com/cedarelevator/commerce/internal/domain"
)

// IndividualLimits is the static order policy for the individual (non-business)
// account tier. Read once from configuration at startup, immutable thereafter.
type IndividualLimits struct {
	// MaxOrderValue caps the order total, inclusive.
	MaxOrderValue int64

	// MaxQuantityPerItem caps each line item's quantity, inclusive.
	MaxQuantityPerItem int32
}

// LimitResult reports every limit violation found, not just the first,
// so the UI can show a complete list instead of forcing iterative
// fix-and-resubmit.
type LimitResult struct {
	Valid      bool     `json:"valid"`
	Violations []string `json:"violations,omitempty"`
}

// Validate checks the items and order total against the individual-tier
// limits. Both limits are boundary inclusive: an order at exactly the
// maximum passes. Pure and side-effect free.
func (l IndividualLimits) Validate(items []domain.CheckoutItem, total int64) LimitResult {
	var violations []string

	if total > l.MaxOrderValue {
		violations = append(violations, fmt.Sprintf(
			"Order total %d exceeds individual limit of %d", total, l.MaxOrderValue))
	}

	for _, item := range items {
		if item.Quantity > l.MaxQuantityPerItem {
			violations = append(violations, fmt.Sprintf(
				"Quantity %d for %q exceeds the per-item limit of %d",
				item.Quantity, item.Title, l.MaxQuantityPerItem))
		}
	}

	return LimitResult{
		Valid:      len(violations) == 0,
		Violations: violations,
	}
}

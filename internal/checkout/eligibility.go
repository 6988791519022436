// Package checkout holds the pure checkout business rules: the eligibility
// gate, the pricing engine, and the individual-tier limits validator.
// Nothing in this package touches storage or the network, so every rule can
// be evaluated speculatively (e.g., for live form feedback) as well as at
// order-creation time.
package checkout

import "github.com/cedarelevator/commerce/internal/domain"

// Eligibility decides whether an account type may proceed through checkout
// from the given source. Direct cart checkout is reserved for verified
// commercial buyers; everyone else is funneled to the human-reviewed quote
// workflow. A blocked combination is a result, not an error, so callers can
// render the appropriate call-to-action.
func Eligibility(account domain.AccountType, source domain.CheckoutSource) domain.Eligibility {
	switch account {
	case domain.AccountGuest:
		return domain.Eligibility{
			Eligible: false,
			Reason:   domain.ReasonNotAuthenticated,
			Message:  "Sign in to continue to checkout",
		}

	case domain.AccountIndividual:
		if source == domain.SourceCart {
			return domain.Eligibility{
				Eligible: false,
				Reason:   domain.ReasonBusinessRequired,
				Message:  "Cart checkout is reserved for verified business accounts. Request a quote instead",
			}
		}
		// Quote checkout is open to individuals, subject to the
		// individual-tier order limits.
		return domain.Eligibility{Eligible: true}

	case domain.AccountBusinessUnverified:
		if source == domain.SourceCart {
			return domain.Eligibility{
				Eligible: false,
				Reason:   domain.ReasonVerificationRequired,
				Message:  "Cart checkout requires business verification",
			}
		}
		return domain.Eligibility{
			Eligible: false,
			Reason:   domain.ReasonVerificationRequired,
			Message:  "Checkout requires business verification",
		}

	case domain.AccountBusinessVerified:
		return domain.Eligibility{Eligible: true}
	}

	// Unknown account types are treated like guests rather than allowed
	// through by accident.
	return domain.Eligibility{
		Eligible: false,
		Reason:   domain.ReasonNotAuthenticated,
		Message:  "Sign in to continue to checkout",
	}
}

package service

import (
	"github.com/cedarelevator/commerce/internal/domain"
)

// Order and checkout errors
var (
	ErrOrderNotFound          = domain.Errorf(domain.ENOTFOUND, "", "Order not found")
	ErrQuoteNotFound          = domain.Errorf(domain.ENOTFOUND, "", "Quote not found")
	ErrQuoteNotApproved       = domain.Errorf(domain.EINVALID, "", "Quote has not been approved for ordering")
	ErrQuoteEmpty             = domain.Errorf(domain.EINVALID, "", "Quote has no items")
	ErrCartCheckoutUnbuilt    = domain.Errorf(domain.ENOTIMPL, "", "Cart checkout is not available yet")
	ErrDuplicateSubmission    = domain.Errorf(domain.ECONFLICT, "", "This checkout was already submitted")
	ErrUnsupportedPayment     = domain.Errorf(domain.EPAYMENT, "", "Unsupported payment method")
	ErrInvalidStatus          = domain.Errorf(domain.EINVALID, "", "Unknown order status")
	ErrMissingTrackingNumber  = domain.Errorf(domain.EINVALID, "", "Tracking number is required")
	ErrMissingTrackingCarrier = domain.Errorf(domain.EINVALID, "", "Carrier is required")
	ErrMissingCancelReason    = domain.Errorf(domain.EINVALID, "", "Cancellation reason is required")
)

// Address errors
var (
	ErrAddressNotFound    = domain.Errorf(domain.ENOTFOUND, "", "Address not found")
	ErrInvalidBusinessID  = domain.Errorf(domain.EINVALID, "", "Invalid business id")
	ErrInvalidAddressType = domain.Errorf(domain.EINVALID, "", "Invalid address type")
)

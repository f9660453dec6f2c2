package models

import "errors"

// Error kinds surfaced by services. Controllers map these to HTTP status
// codes; anything else is reported generically and logged with context.
var (
	ErrNotFound              = errors.New("not found")
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidQuantity       = errors.New("quantity must be greater than zero")
	ErrInvalidTotal          = errors.New("order total cannot be negative")
	ErrProductUnavailable    = errors.New("product is unavailable or out of stock")
	ErrEmptyOrder            = errors.New("nothing to check out")
	ErrInvalidTransition     = errors.New("invalid order status transition")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrPaymentNotFound       = errors.New("payment not found")
)

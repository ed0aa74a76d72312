package domain

import "errors"

var (
	ErrInvoiceNotFound      = errors.New("invoice not found")
	ErrInvalidStatus        = errors.New("invalid invoice status")
	ErrInvalidTransition    = errors.New("invoice status transition not allowed")
	ErrInvalidItemType      = errors.New("invalid invoice item type")
	ErrInvalidQuantity      = errors.New("item quantity must be positive")
	ErrInvalidUnitPrice     = errors.New("item unit price must not be negative")
	ErrMissingCustomer      = errors.New("invoice customer is required")
	ErrMissingItems         = errors.New("invoice requires at least one item")
	ErrMissingPaymentMethod = errors.New("payment method is required")

	// ErrLineTotalMismatch signals emitted line totals diverging from the
	// calculated subtotal. This is an internal logic error, never caused by
	// caller input.
	ErrLineTotalMismatch = errors.New("invoice line totals do not sum to subtotal")
)

// Package domain declares the tax computation port used by the pricing
// engine and the invoice assembler.
package domain

import "github.com/shopspring/decimal"

type Engine interface {
	// Rate returns the tax rate currently in effect, e.g. 0.10.
	Rate() decimal.Decimal

	// ApplyTax computes the tax amount for a subtotal, rounded half-up to
	// two decimals, and the resulting total.
	ApplyTax(subtotal decimal.Decimal) (taxAmount, total decimal.Decimal)
}

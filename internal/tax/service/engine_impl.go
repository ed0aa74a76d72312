package service

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/couriersync/billing/internal/config"
	taxdomain "github.com/couriersync/billing/internal/tax/domain"
)

type engine struct {
	rate decimal.Decimal
}

// NewEngine builds a flat-rate tax engine from configuration. The rate was
// hardcoded in earlier revisions; keeping it in config is the first step
// towards jurisdiction-aware tax rules.
func NewEngine(cfg config.Config) (taxdomain.Engine, error) {
	rate, err := decimal.NewFromString(cfg.Tax.Rate)
	if err != nil {
		return nil, fmt.Errorf("parse tax rate %q: %w", cfg.Tax.Rate, err)
	}
	if rate.IsNegative() {
		return nil, fmt.Errorf("tax rate %q must not be negative", cfg.Tax.Rate)
	}
	return &engine{rate: rate}, nil
}

func (e *engine) Rate() decimal.Decimal { return e.rate }

func (e *engine) ApplyTax(subtotal decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	taxAmount := subtotal.Mul(e.rate).Round(2)
	return taxAmount, subtotal.Add(taxAmount)
}

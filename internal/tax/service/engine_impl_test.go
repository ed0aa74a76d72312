package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/couriersync/billing/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, rate string) *engine {
	t.Helper()
	e, err := NewEngine(config.Config{Tax: config.TaxConfig{Rate: rate}})
	require.NoError(t, err)
	return e.(*engine)
}

func TestApplyTaxRoundsHalfUp(t *testing.T) {
	e := newEngine(t, "0.10")

	for _, tc := range []struct {
		subtotal string
		tax      string
		total    string
	}{
		{"109.50", "10.95", "120.45"},
		{"100.00", "10.00", "110.00"},
		{"0.05", "0.01", "0.06"},  // 0.005 rounds up
		{"0.04", "0.00", "0.04"},  // 0.004 rounds down
		{"33.33", "3.33", "36.66"},
	} {
		taxAmount, total := e.ApplyTax(decimal.RequireFromString(tc.subtotal))
		assert.Equal(t, tc.tax, taxAmount.StringFixed(2), "subtotal %s", tc.subtotal)
		assert.Equal(t, tc.total, total.StringFixed(2), "subtotal %s", tc.subtotal)
	}
}

func TestApplyTaxZeroRate(t *testing.T) {
	e := newEngine(t, "0")
	taxAmount, total := e.ApplyTax(decimal.RequireFromString("50.00"))
	assert.True(t, taxAmount.IsZero())
	assert.Equal(t, "50.00", total.StringFixed(2))
}

func TestNewEngineRejectsBadRate(t *testing.T) {
	_, err := NewEngine(config.Config{Tax: config.TaxConfig{Rate: "ten percent"}})
	require.Error(t, err)

	_, err = NewEngine(config.Config{Tax: config.TaxConfig{Rate: "-0.10"}})
	require.Error(t, err)
}

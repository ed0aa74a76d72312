package service

import (
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/couriersync/billing/internal/config"
	invoicedomain "github.com/couriersync/billing/internal/invoice/domain"
	pricingdomain "github.com/couriersync/billing/internal/pricing/domain"
	taxservice "github.com/couriersync/billing/internal/tax/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func invoiceConfig() config.Config {
	return config.Config{
		Tax: config.TaxConfig{Rate: "0.10"},
		Invoice: config.InvoiceConfig{
			DueDays:         30,
			NumberPrefix:    "INV",
			DefaultCurrency: "USD",
		},
	}
}

func newTestAssembler(t *testing.T) *Assembler {
	t.Helper()
	cfg := invoiceConfig()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	engine, err := taxservice.NewEngine(cfg)
	require.NoError(t, err)
	return NewAssembler(cfg, node, engine)
}

func fullCalculation() *pricingdomain.PricingCalculation {
	return &pricingdomain.PricingCalculation{
		BaseRate:            dec("15.00"),
		PerKmRate:           dec("1.20"),
		DistanceCharge:      dec("72.00"),
		UrgentSurcharge:     dec("5.00"),
		AfterHoursSurcharge: dec("7.50"),
		WeekendSurcharge:    dec("10.00"),
		WeightSurcharge:     decimal.Zero,
		DistanceSurcharge:   decimal.Zero,
		Subtotal:            dec("109.50"),
		TaxAmount:           dec("10.95"),
		Total:               dec("120.45"),
	}
}

func testOrder() invoicedomain.OrderContext {
	deliveryID := uuid.New()
	return invoicedomain.OrderContext{
		CustomerID:   uuid.New(),
		CustomerName: "City Hospital",
		DeliveryID:   &deliveryID,
		CreatedBy:    uuid.New(),
	}
}

func TestAssembleHeader(t *testing.T) {
	a := newTestAssembler(t)
	now := time.Date(2026, 3, 7, 2, 0, 0, 0, time.UTC)
	order := testOrder()

	invoice, items, err := a.Assemble(fullCalculation(), order, now)
	require.NoError(t, err)
	require.NotEmpty(t, items)

	assert.Equal(t, invoicedomain.InvoiceStatusDraft, invoice.Status)
	assert.Equal(t, order.CustomerID, invoice.CustomerID)
	assert.Equal(t, "USD", invoice.Currency)
	assert.Equal(t, "109.50", invoice.Subtotal.StringFixed(2))
	assert.Equal(t, "10.95", invoice.TaxAmount.StringFixed(2))
	assert.Equal(t, "120.45", invoice.TotalAmount.StringFixed(2))
	assert.Equal(t, invoice.IssueDate.AddDate(0, 0, 30), invoice.DueDate)
	assert.True(t, strings.HasPrefix(invoice.InvoiceNumber, "INV-"))
}

func TestAssembleSkipsZeroComponentsAndKeepsOrder(t *testing.T) {
	a := newTestAssembler(t)
	now := time.Date(2026, 3, 7, 2, 0, 0, 0, time.UTC)

	_, items, err := a.Assemble(fullCalculation(), testOrder(), now)
	require.NoError(t, err)

	// Weight and extra-distance surcharges are zero so only five items remain,
	// in the fixed base, distance, urgent, after-hours, weekend order.
	require.Len(t, items, 5)
	assert.Equal(t, invoicedomain.ItemTypeDelivery, items[0].ItemType)
	assert.Equal(t, "Base delivery rate", items[0].Description)
	assert.Equal(t, invoicedomain.ItemTypeDelivery, items[1].ItemType)
	assert.Equal(t, "Distance charge", items[1].Description)
	assert.Equal(t, "Urgent delivery surcharge", items[2].Description)
	assert.Equal(t, "After-hours surcharge", items[3].Description)
	assert.Equal(t, "Weekend surcharge", items[4].Description)
	for _, item := range items[2:] {
		assert.Equal(t, invoicedomain.ItemTypeSurcharge, item.ItemType, item.Description)
	}
}

func TestAssembleLineTotalsSumToSubtotal(t *testing.T) {
	a := newTestAssembler(t)
	calc := fullCalculation()

	_, items, err := a.Assemble(calc, testOrder(), time.Now().UTC())
	require.NoError(t, err)

	sum := decimal.Zero
	for _, item := range items {
		assert.Equal(t, 1, item.Quantity)
		assert.True(t, item.LineTotal.Equal(item.UnitPrice))
		sum = sum.Add(item.LineTotal)
	}
	assert.True(t, sum.Equal(calc.Subtotal))
}

func TestAssembleBaseRateOnly(t *testing.T) {
	a := newTestAssembler(t)
	calc := &pricingdomain.PricingCalculation{
		BaseRate:  dec("15.00"),
		PerKmRate: dec("1.20"),
		Subtotal:  dec("15.00"),
		TaxAmount: dec("1.50"),
		Total:     dec("16.50"),
	}

	_, items, err := a.Assemble(calc, testOrder(), time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Base delivery rate", items[0].Description)
}

func TestAssembleRejectsInconsistentCalculation(t *testing.T) {
	a := newTestAssembler(t)
	calc := fullCalculation()
	calc.Subtotal = dec("999.00")

	_, _, err := a.Assemble(calc, testOrder(), time.Now().UTC())
	require.ErrorIs(t, err, invoicedomain.ErrLineTotalMismatch)
}

func TestAssembleCurrencyOverride(t *testing.T) {
	a := newTestAssembler(t)
	order := testOrder()
	order.Currency = "EUR"

	invoice, _, err := a.Assemble(fullCalculation(), order, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, "EUR", invoice.Currency)
}

package service

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/couriersync/billing/internal/config"
	invoicedomain "github.com/couriersync/billing/internal/invoice/domain"
	pricingdomain "github.com/couriersync/billing/internal/pricing/domain"
	taxdomain "github.com/couriersync/billing/internal/tax/domain"
)

// Assembler turns a completed pricing calculation into an invoice header and
// its ordered line items. It assigns invoice numbering, the DRAFT status and
// the default due date; persistence belongs to the service.
type Assembler struct {
	genID           *snowflake.Node
	tax             taxdomain.Engine
	dueDays         int
	numberPrefix    string
	defaultCurrency string
}

func NewAssembler(cfg config.Config, genID *snowflake.Node, tax taxdomain.Engine) *Assembler {
	return &Assembler{
		genID:           genID,
		tax:             tax,
		dueDays:         cfg.Invoice.DueDays,
		numberPrefix:    cfg.Invoice.NumberPrefix,
		defaultCurrency: cfg.Invoice.DefaultCurrency,
	}
}

// numberFor derives the unique invoice number from the invoice ID.
func (a *Assembler) numberFor(invoiceID snowflake.ID) string {
	return fmt.Sprintf("%s-%d", a.numberPrefix, invoiceID)
}

// Assemble emits one DELIVERY item for the base rate, one DELIVERY item for
// the distance charge when positive, and one SURCHARGE item per non-zero
// surcharge in the fixed order urgent, after-hours, weekend, weight,
// extra-distance. Zero-amount components produce no item. The emitted line
// totals must sum to the calculation subtotal; a mismatch is an internal
// logic error.
func (a *Assembler) Assemble(calc *pricingdomain.PricingCalculation, order invoicedomain.OrderContext, now time.Time) (*invoicedomain.Invoice, []invoicedomain.InvoiceItem, error) {
	issueDate := now.Truncate(24 * time.Hour)
	invoiceID := a.genID.Generate()

	currency := order.Currency
	if currency == "" {
		currency = a.defaultCurrency
	}

	invoice := &invoicedomain.Invoice{
		ID:                 invoiceID,
		InvoiceNumber:      a.numberFor(invoiceID),
		CustomerID:         order.CustomerID,
		IssueDate:          issueDate,
		DueDate:            issueDate.AddDate(0, 0, a.dueDays),
		Status:             invoicedomain.InvoiceStatusDraft,
		Subtotal:           calc.Subtotal,
		TaxRate:            a.tax.Rate(),
		TaxAmount:          calc.TaxAmount,
		TotalAmount:        calc.Total,
		Currency:           currency,
		CustomerName:       order.CustomerName,
		CustomerAddress:    order.CustomerAddress,
		CustomerCity:       order.CustomerCity,
		CustomerPostalCode: order.CustomerPostalCode,
		CustomerCountry:    order.CustomerCountry,
		CreatedBy:          order.CreatedBy,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	components := []struct {
		itemType    invoicedomain.ItemType
		description string
		amount      decimal.Decimal
	}{
		{invoicedomain.ItemTypeDelivery, "Base delivery rate", calc.BaseRate},
		{invoicedomain.ItemTypeDelivery, "Distance charge", calc.DistanceCharge},
		{invoicedomain.ItemTypeSurcharge, "Urgent delivery surcharge", calc.UrgentSurcharge},
		{invoicedomain.ItemTypeSurcharge, "After-hours surcharge", calc.AfterHoursSurcharge},
		{invoicedomain.ItemTypeSurcharge, "Weekend surcharge", calc.WeekendSurcharge},
		{invoicedomain.ItemTypeSurcharge, "Weight surcharge", calc.WeightSurcharge},
		{invoicedomain.ItemTypeSurcharge, "Extra distance surcharge", calc.DistanceSurcharge},
	}

	var items []invoicedomain.InvoiceItem
	lineSum := decimal.Zero
	for _, component := range components {
		if component.amount.IsZero() {
			continue
		}
		items = append(items, invoicedomain.InvoiceItem{
			ID:              a.genID.Generate(),
			InvoiceID:       invoiceID,
			ItemType:        component.itemType,
			Description:     component.description,
			Quantity:        1,
			UnitPrice:       component.amount,
			DiscountPercent: decimal.Zero,
			LineTotal:       component.amount,
			DeliveryID:      order.DeliveryID,
			CreatedAt:       now,
		})
		lineSum = lineSum.Add(component.amount)
	}

	if !lineSum.Equal(calc.Subtotal) {
		return nil, nil, invoicedomain.ErrLineTotalMismatch
	}
	return invoice, items, nil
}

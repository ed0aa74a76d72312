package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	pricingdomain "github.com/couriersync/billing/internal/pricing/domain"
)

// OrderContext identifies the delivery and customer an invoice is issued
// for, snapshotting the customer details the invoice must keep.
type OrderContext struct {
	CustomerID         uuid.UUID  `json:"customerId"`
	CustomerName       string     `json:"customerName"`
	CustomerAddress    *string    `json:"customerAddress"`
	CustomerCity       *string    `json:"customerCity"`
	CustomerPostalCode *string    `json:"customerPostalCode"`
	CustomerCountry    *string    `json:"customerCountry"`
	DeliveryID         *uuid.UUID `json:"deliveryId"`
	Currency           string     `json:"currency"`
	CreatedBy          uuid.UUID  `json:"createdBy"`
}

// ItemRequest is one caller-supplied line item. LineTotal may be left zero;
// it is then derived as unitPrice * quantity less the discount.
type ItemRequest struct {
	ItemType        ItemType         `json:"itemType"`
	Description     string           `json:"description"`
	Quantity        int              `json:"quantity"`
	UnitPrice       decimal.Decimal  `json:"unitPrice"`
	DiscountPercent *decimal.Decimal `json:"discountPercent"`
	LineTotal       *decimal.Decimal `json:"lineTotal"`
	DeliveryID      *uuid.UUID       `json:"deliveryId"`
}

// CreateRequest carries an externally assembled invoice (header + items).
type CreateRequest struct {
	Order     OrderContext  `json:"order"`
	IssueDate *time.Time    `json:"issueDate"`
	DueDate   *time.Time    `json:"dueDate"`
	Notes     *string       `json:"notes"`
	Items     []ItemRequest `json:"items"`
}

type Service interface {
	// CreateInvoice persists a caller-assembled invoice atomically.
	CreateInvoice(ctx context.Context, req CreateRequest) (*Invoice, []InvoiceItem, error)

	// CreateFromCalculation turns a completed pricing calculation into line
	// items and persists the invoice atomically.
	CreateFromCalculation(ctx context.Context, calc *pricingdomain.PricingCalculation, order OrderContext) (*Invoice, []InvoiceItem, error)

	GetInvoice(ctx context.Context, id snowflake.ID) (*Invoice, []InvoiceItem, error)
	GetInvoiceByNumber(ctx context.Context, invoiceNumber string) (*Invoice, []InvoiceItem, error)
	UpdateStatus(ctx context.Context, id snowflake.ID, status InvoiceStatus, notes *string) (*Invoice, error)
	RecordPayment(ctx context.Context, id snowflake.ID, method string, date *time.Time, reference *string) (*Invoice, error)
	ListOverdue(ctx context.Context) ([]Invoice, error)

	// SweepOverdue flips unpaid invoices past their due date to OVERDUE and
	// returns how many changed. Driven by the scheduler.
	SweepOverdue(ctx context.Context) (int, error)
}

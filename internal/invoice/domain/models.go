// Package domain holds the invoice aggregate persisted by the billing
// boundary.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusSent      InvoiceStatus = "SENT"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusOverdue   InvoiceStatus = "OVERDUE"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid,
		InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s InvoiceStatus) Terminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled
}

// CanTransitionTo encodes the invoice lifecycle: DRAFT -> SENT -> PAID, with
// DRAFT/SENT -> OVERDUE, OVERDUE -> PAID, and any non-terminal state ->
// CANCELLED. Transitions are triggered externally; only the legality is
// enforced here.
func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus) bool {
	if s.Terminal() || s == next {
		return false
	}
	switch next {
	case InvoiceStatusSent:
		return s == InvoiceStatusDraft
	case InvoiceStatusPaid:
		return s == InvoiceStatusSent || s == InvoiceStatusOverdue
	case InvoiceStatusOverdue:
		return s == InvoiceStatusDraft || s == InvoiceStatusSent
	case InvoiceStatusCancelled:
		return true
	}
	return false
}

type ItemType string

const (
	ItemTypeDelivery  ItemType = "DELIVERY"
	ItemTypeSurcharge ItemType = "SURCHARGE"
	ItemTypeDiscount  ItemType = "DISCOUNT"
	ItemTypeOther     ItemType = "OTHER"
)

func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeDelivery, ItemTypeSurcharge, ItemTypeDiscount, ItemTypeOther:
		return true
	}
	return false
}

type Invoice struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	InvoiceNumber string       `gorm:"column:invoice_number;type:text;not null;uniqueIndex" json:"invoiceNumber"`
	CustomerID    uuid.UUID    `gorm:"column:customer_id;type:uuid;not null;index" json:"customerId"`

	IssueDate time.Time     `gorm:"column:issue_date;type:date;not null" json:"issueDate"`
	DueDate   time.Time     `gorm:"column:due_date;type:date;not null" json:"dueDate"`
	Status    InvoiceStatus `gorm:"type:text;not null;index" json:"status"`

	Subtotal    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	TaxRate     decimal.Decimal `gorm:"column:tax_rate;type:numeric(6,4);not null" json:"taxRate"`
	TaxAmount   decimal.Decimal `gorm:"column:tax_amount;type:numeric(12,2);not null" json:"taxAmount"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2);not null" json:"totalAmount"`
	Currency    string          `gorm:"type:text;not null;default:USD" json:"currency"`

	// Customer snapshot at issue time; invoices must stay readable after
	// the customer record changes.
	CustomerName       string  `gorm:"column:customer_name;type:text;not null" json:"customerName"`
	CustomerAddress    *string `gorm:"column:customer_address;type:text" json:"customerAddress,omitempty"`
	CustomerCity       *string `gorm:"column:customer_city;type:text" json:"customerCity,omitempty"`
	CustomerPostalCode *string `gorm:"column:customer_postal_code;type:text" json:"customerPostalCode,omitempty"`
	CustomerCountry    *string `gorm:"column:customer_country;type:text" json:"customerCountry,omitempty"`

	PaymentMethod    *string    `gorm:"column:payment_method;type:text" json:"paymentMethod,omitempty"`
	PaymentDate      *time.Time `gorm:"column:payment_date;type:date" json:"paymentDate,omitempty"`
	PaymentReference *string    `gorm:"column:payment_reference;type:text" json:"paymentReference,omitempty"`

	Notes    *string           `gorm:"type:text" json:"notes,omitempty"`
	Metadata datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`

	CreatedBy uuid.UUID  `gorm:"column:created_by;type:uuid;not null" json:"createdBy"`
	SentAt    *time.Time `gorm:"column:sent_at" json:"sentAt,omitempty"`
	CreatedAt time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"not null" json:"updatedAt"`
}

func (Invoice) TableName() string { return "invoices" }

type InvoiceItem struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	InvoiceID snowflake.ID `gorm:"column:invoice_id;not null;index" json:"invoiceId"`

	ItemType    ItemType `gorm:"column:item_type;type:text;not null" json:"itemType"`
	Description string   `gorm:"type:text;not null" json:"description"`

	Quantity        int             `gorm:"not null;default:1" json:"quantity"`
	UnitPrice       decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null" json:"unitPrice"`
	DiscountPercent decimal.Decimal `gorm:"column:discount_percent;type:numeric(5,2);not null;default:0" json:"discountPercent"`
	LineTotal       decimal.Decimal `gorm:"column:line_total;type:numeric(12,2);not null" json:"lineTotal"`

	// Lookup reference only; the delivery record is owned elsewhere.
	DeliveryID *uuid.UUID `gorm:"column:delivery_id;type:uuid;index" json:"deliveryId,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

func (InvoiceItem) TableName() string { return "invoice_items" }

// Package events is the outbound-event port of the billing boundary. The
// original deployment published invoice events to a broker; here the
// publisher is an explicit interface called only after a successful commit,
// decoupled from the pricing computation.
package events

import "context"

const StreamInvoices = "billing.invoices"

const (
	EventInvoiceCreated         = "invoice.created"
	EventInvoiceStatusChanged   = "invoice.status_changed"
	EventInvoicePaymentRecorded = "invoice.payment_recorded"
	EventInvoiceOverdue         = "invoice.overdue"
)

type Publisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

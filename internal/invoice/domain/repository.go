package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// InsertWithItems writes the invoice header and all items. Callers run
	// it inside a transaction so a partial invoice is never visible.
	InsertWithItems(ctx context.Context, db *gorm.DB, invoice *Invoice, items []InvoiceItem) error

	Update(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Invoice, error)
	FindByNumber(ctx context.Context, db *gorm.DB, invoiceNumber string) (*Invoice, error)
	FindItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]InvoiceItem, error)

	// FindOverdue returns unpaid invoices whose due date lies strictly
	// before the given date.
	FindOverdue(ctx context.Context, db *gorm.DB, before time.Time) ([]Invoice, error)
}

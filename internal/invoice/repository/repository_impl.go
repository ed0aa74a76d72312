package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/couriersync/billing/internal/invoice/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() invoicedomain.Repository {
	return &repo{}
}

func (r *repo) InsertWithItems(ctx context.Context, db *gorm.DB, invoice *invoicedomain.Invoice, items []invoicedomain.InvoiceItem) error {
	if err := db.WithContext(ctx).Create(invoice).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, invoice *invoicedomain.Invoice) error {
	return db.WithContext(ctx).Save(invoice).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*invoicedomain.Invoice, error) {
	var invoice invoicedomain.Invoice
	err := db.WithContext(ctx).First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *repo) FindByNumber(ctx context.Context, db *gorm.DB, invoiceNumber string) (*invoicedomain.Invoice, error) {
	var invoice invoicedomain.Invoice
	err := db.WithContext(ctx).First(&invoice, "invoice_number = ?", invoiceNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *repo) FindItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]invoicedomain.InvoiceItem, error) {
	var items []invoicedomain.InvoiceItem
	err := db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("id").
		Find(&items).Error
	return items, err
}

func (r *repo) FindOverdue(ctx context.Context, db *gorm.DB, before time.Time) ([]invoicedomain.Invoice, error) {
	var invoices []invoicedomain.Invoice
	err := db.WithContext(ctx).
		Where("due_date < ?", before.Truncate(24*time.Hour)).
		Where("status IN ?", []invoicedomain.InvoiceStatus{
			invoicedomain.InvoiceStatusDraft,
			invoicedomain.InvoiceStatusSent,
			invoicedomain.InvoiceStatusOverdue,
		}).
		Order("due_date").
		Find(&invoices).Error
	return invoices, err
}

package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/couriersync/billing/internal/clock"
	"github.com/couriersync/billing/internal/config"
	"github.com/couriersync/billing/internal/events"
	invoicedomain "github.com/couriersync/billing/internal/invoice/domain"
	"github.com/couriersync/billing/internal/invoice/repository"
	pricingdomain "github.com/couriersync/billing/internal/pricing/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID     *snowflake.Node
	repo      invoicedomain.Repository
	clock     clock.Clock
	assembler *Assembler
	publisher events.Publisher
	dueDays   int
}

type ServiceParam struct {
	fx.In

	Config    config.Config
	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Assembler *Assembler
	Publisher events.Publisher
}

func NewService(p ServiceParam) invoicedomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("invoice.service"),

		genID:     p.GenID,
		repo:      repository.Provide(),
		clock:     p.Clock,
		assembler: p.Assembler,
		publisher: p.Publisher,
		dueDays:   p.Config.Invoice.DueDays,
	}
}

func (s *Service) CreateInvoice(ctx context.Context, req invoicedomain.CreateRequest) (*invoicedomain.Invoice, []invoicedomain.InvoiceItem, error) {
	if req.Order.CustomerID == uuid.Nil || req.Order.CustomerName == "" {
		return nil, nil, invoicedomain.ErrMissingCustomer
	}
	if len(req.Items) == 0 {
		return nil, nil, invoicedomain.ErrMissingItems
	}

	now := s.clock.Now(ctx)
	issueDate := now.Truncate(24 * time.Hour)
	if req.IssueDate != nil {
		issueDate = req.IssueDate.Truncate(24 * time.Hour)
	}
	dueDate := issueDate.AddDate(0, 0, s.dueDays)
	if req.DueDate != nil {
		dueDate = req.DueDate.Truncate(24 * time.Hour)
	}

	invoiceID := s.genID.Generate()
	currency := req.Order.Currency
	if currency == "" {
		currency = "USD"
	}

	subtotal := decimal.Zero
	items := make([]invoicedomain.InvoiceItem, 0, len(req.Items))
	for _, itemReq := range req.Items {
		item, err := s.buildItem(invoiceID, itemReq, now)
		if err != nil {
			return nil, nil, err
		}
		subtotal = subtotal.Add(item.LineTotal)
		items = append(items, item)
	}

	taxAmount, total := s.assembler.tax.ApplyTax(subtotal)
	invoice := &invoicedomain.Invoice{
		ID:                 invoiceID,
		InvoiceNumber:      s.assembler.numberFor(invoiceID),
		CustomerID:         req.Order.CustomerID,
		IssueDate:          issueDate,
		DueDate:            dueDate,
		Status:             invoicedomain.InvoiceStatusDraft,
		Subtotal:           subtotal,
		TaxRate:            s.assembler.tax.Rate(),
		TaxAmount:          taxAmount,
		TotalAmount:        total,
		Currency:           currency,
		CustomerName:       req.Order.CustomerName,
		CustomerAddress:    req.Order.CustomerAddress,
		CustomerCity:       req.Order.CustomerCity,
		CustomerPostalCode: req.Order.CustomerPostalCode,
		CustomerCountry:    req.Order.CustomerCountry,
		Notes:              req.Notes,
		CreatedBy:          req.Order.CreatedBy,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.persist(ctx, invoice, items); err != nil {
		return nil, nil, err
	}
	s.publish(ctx, events.EventInvoiceCreated, invoice)

	s.log.Info("invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.Int("items", len(items)),
	)
	return invoice, items, nil
}

func (s *Service) buildItem(invoiceID snowflake.ID, req invoicedomain.ItemRequest, now time.Time) (invoicedomain.InvoiceItem, error) {
	if !req.ItemType.Valid() {
		return invoicedomain.InvoiceItem{}, invoicedomain.ErrInvalidItemType
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return invoicedomain.InvoiceItem{}, invoicedomain.ErrInvalidQuantity
	}
	if req.UnitPrice.IsNegative() {
		return invoicedomain.InvoiceItem{}, invoicedomain.ErrInvalidUnitPrice
	}

	discount := decimal.Zero
	if req.DiscountPercent != nil {
		discount = *req.DiscountPercent
	}

	lineTotal := req.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	if discount.IsPositive() {
		discountAmount := lineTotal.Mul(discount).Div(decimal.NewFromInt(100)).Round(2)
		lineTotal = lineTotal.Sub(discountAmount)
	}
	lineTotal = lineTotal.Round(2)
	if req.LineTotal != nil {
		lineTotal = req.LineTotal.Round(2)
	}

	return invoicedomain.InvoiceItem{
		ID:              s.genID.Generate(),
		InvoiceID:       invoiceID,
		ItemType:        req.ItemType,
		Description:     req.Description,
		Quantity:        quantity,
		UnitPrice:       req.UnitPrice,
		DiscountPercent: discount,
		LineTotal:       lineTotal,
		DeliveryID:      req.DeliveryID,
		CreatedAt:       now,
	}, nil
}

func (s *Service) CreateFromCalculation(ctx context.Context, calc *pricingdomain.PricingCalculation, order invoicedomain.OrderContext) (*invoicedomain.Invoice, []invoicedomain.InvoiceItem, error) {
	now := s.clock.Now(ctx)
	invoice, items, err := s.assembler.Assemble(calc, order, now)
	if err != nil {
		return nil, nil, err
	}

	if err := s.persist(ctx, invoice, items); err != nil {
		return nil, nil, err
	}
	s.publish(ctx, events.EventInvoiceCreated, invoice)

	s.log.Info("invoice assembled from calculation",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("subtotal", invoice.Subtotal.String()),
		zap.Int("items", len(items)),
	)
	return invoice, items, nil
}

// persist writes header and items as one all-or-nothing unit. A partially
// written invoice would violate the subtotal invariant.
func (s *Service) persist(ctx context.Context, invoice *invoicedomain.Invoice, items []invoicedomain.InvoiceItem) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.InsertWithItems(ctx, tx, invoice, items)
	})
}

func (s *Service) GetInvoice(ctx context.Context, id snowflake.ID) (*invoicedomain.Invoice, []invoicedomain.InvoiceItem, error) {
	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, nil, err
	}
	if invoice == nil {
		return nil, nil, invoicedomain.ErrInvoiceNotFound
	}
	items, err := s.repo.FindItems(ctx, s.db, invoice.ID)
	if err != nil {
		return nil, nil, err
	}
	return invoice, items, nil
}

func (s *Service) GetInvoiceByNumber(ctx context.Context, invoiceNumber string) (*invoicedomain.Invoice, []invoicedomain.InvoiceItem, error) {
	invoice, err := s.repo.FindByNumber(ctx, s.db, invoiceNumber)
	if err != nil {
		return nil, nil, err
	}
	if invoice == nil {
		return nil, nil, invoicedomain.ErrInvoiceNotFound
	}
	items, err := s.repo.FindItems(ctx, s.db, invoice.ID)
	if err != nil {
		return nil, nil, err
	}
	return invoice, items, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id snowflake.ID, status invoicedomain.InvoiceStatus, notes *string) (*invoicedomain.Invoice, error) {
	if !status.Valid() {
		return nil, invoicedomain.ErrInvalidStatus
	}

	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, invoicedomain.ErrInvoiceNotFound
	}
	if !invoice.Status.CanTransitionTo(status) {
		return nil, invoicedomain.ErrInvalidTransition
	}

	now := s.clock.Now(ctx)
	invoice.Status = status
	invoice.UpdatedAt = now
	if notes != nil {
		invoice.Notes = notes
	}
	if status == invoicedomain.InvoiceStatusSent && invoice.SentAt == nil {
		invoice.SentAt = &now
	}

	if err := s.repo.Update(ctx, s.db, invoice); err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventInvoiceStatusChanged, invoice)

	s.log.Info("invoice status updated",
		zap.String("invoice_id", id.String()),
		zap.String("status", string(status)),
	)
	return invoice, nil
}

func (s *Service) RecordPayment(ctx context.Context, id snowflake.ID, method string, date *time.Time, reference *string) (*invoicedomain.Invoice, error) {
	if method == "" {
		return nil, invoicedomain.ErrMissingPaymentMethod
	}

	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, invoicedomain.ErrInvoiceNotFound
	}
	if !invoice.Status.CanTransitionTo(invoicedomain.InvoiceStatusPaid) {
		return nil, invoicedomain.ErrInvalidTransition
	}

	now := s.clock.Now(ctx)
	paymentDate := now.Truncate(24 * time.Hour)
	if date != nil {
		paymentDate = date.Truncate(24 * time.Hour)
	}

	invoice.Status = invoicedomain.InvoiceStatusPaid
	invoice.PaymentMethod = &method
	invoice.PaymentDate = &paymentDate
	invoice.PaymentReference = reference
	invoice.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, invoice); err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventInvoicePaymentRecorded, invoice)

	s.log.Info("payment recorded",
		zap.String("invoice_id", id.String()),
		zap.String("method", method),
	)
	return invoice, nil
}

func (s *Service) ListOverdue(ctx context.Context) ([]invoicedomain.Invoice, error) {
	return s.repo.FindOverdue(ctx, s.db, s.clock.Now(ctx))
}

func (s *Service) SweepOverdue(ctx context.Context) (int, error) {
	now := s.clock.Now(ctx)
	candidates, err := s.repo.FindOverdue(ctx, s.db, now)
	if err != nil {
		return 0, err
	}

	flipped := 0
	for i := range candidates {
		invoice := &candidates[i]
		if !invoice.Status.CanTransitionTo(invoicedomain.InvoiceStatusOverdue) {
			continue
		}
		invoice.Status = invoicedomain.InvoiceStatusOverdue
		invoice.UpdatedAt = now
		if err := s.repo.Update(ctx, s.db, invoice); err != nil {
			return flipped, err
		}
		s.publish(ctx, events.EventInvoiceOverdue, invoice)
		flipped++
	}

	if flipped > 0 {
		s.log.Info("overdue sweep completed", zap.Int("flipped", flipped))
	}
	return flipped, nil
}

// publish failures never fail the request; the write already committed.
func (s *Service) publish(ctx context.Context, eventType string, invoice *invoicedomain.Invoice) {
	if err := s.publisher.Publish(ctx, eventType, invoice); err != nil {
		s.log.Error("failed to publish invoice event",
			zap.Error(err),
			zap.String("event_type", eventType),
			zap.String("invoice_id", invoice.ID.String()),
		)
	}
}

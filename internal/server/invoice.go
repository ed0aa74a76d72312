package server

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/couriersync/billing/internal/invoice/domain"
	pricingdomain "github.com/couriersync/billing/internal/pricing/domain"
)

type invoiceResponse struct {
	Invoice *invoicedomain.Invoice      `json:"invoice"`
	Items   []invoicedomain.InvoiceItem `json:"items"`
}

// @Summary      Create Invoice
// @Description  Persist a caller-assembled invoice with its line items
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body invoicedomain.CreateRequest true "Invoice header and items"
// @Success      200 {object} DataResponse
// @Router       /api/invoices [post]
func (s *Server) CreateInvoice(c *gin.Context) {
	var req invoicedomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	invoice, items, err := s.invoiceSvc.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, invoiceResponse{Invoice: invoice, Items: items})
}

type fromCalculationRequest struct {
	Calculation *pricingdomain.PricingCalculation `json:"calculation"`
	Order       invoicedomain.OrderContext        `json:"order"`
}

// @Summary      Create Invoice From Calculation
// @Description  Turn a completed pricing calculation into invoice line items
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Success      200 {object} DataResponse
// @Router       /api/invoices/from-calculation [post]
func (s *Server) CreateInvoiceFromCalculation(c *gin.Context) {
	var req fromCalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Calculation == nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	invoice, items, err := s.invoiceSvc.CreateFromCalculation(c.Request.Context(), req.Calculation, req.Order)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, invoiceResponse{Invoice: invoice, Items: items})
}

// @Summary      Get Invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} DataResponse
// @Router       /api/invoices/{id} [get]
func (s *Server) GetInvoice(c *gin.Context) {
	id, err := parseSnowflakeID(c.Param("id"))
	if err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	invoice, items, err := s.invoiceSvc.GetInvoice(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, invoiceResponse{Invoice: invoice, Items: items})
}

// @Summary      Get Invoice By Number
// @Tags         invoices
// @Produce      json
// @Param        invoiceNumber path string true "Invoice Number"
// @Success      200 {object} DataResponse
// @Router       /api/invoices/number/{invoiceNumber} [get]
func (s *Server) GetInvoiceByNumber(c *gin.Context) {
	number := strings.TrimSpace(c.Param("invoiceNumber"))
	invoice, items, err := s.invoiceSvc.GetInvoiceByNumber(c.Request.Context(), number)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, invoiceResponse{Invoice: invoice, Items: items})
}

// @Summary      List Overdue Invoices
// @Tags         invoices
// @Produce      json
// @Success      200 {object} ListResponse
// @Router       /api/invoices/overdue [get]
func (s *Server) ListOverdueInvoices(c *gin.Context) {
	invoices, err := s.invoiceSvc.ListOverdue(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, invoices)
}

type updateStatusRequest struct {
	Status invoicedomain.InvoiceStatus `json:"status"`
	Notes  *string                     `json:"notes"`
}

// @Summary      Update Invoice Status
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} DataResponse
// @Router       /api/invoices/{id}/status [patch]
func (s *Server) UpdateInvoiceStatus(c *gin.Context) {
	id, err := parseSnowflakeID(c.Param("id"))
	if err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	invoice, err := s.invoiceSvc.UpdateStatus(c.Request.Context(), id, req.Status, req.Notes)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, invoice)
}

type recordPaymentRequest struct {
	Method    string     `json:"method"`
	Date      *time.Time `json:"date"`
	Reference *string    `json:"reference"`
}

// @Summary      Record Payment
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} DataResponse
// @Router       /api/invoices/{id}/payments [post]
func (s *Server) RecordPayment(c *gin.Context) {
	id, err := parseSnowflakeID(c.Param("id"))
	if err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	invoice, err := s.invoiceSvc.RecordPayment(c.Request.Context(), id, req.Method, req.Date, req.Reference)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, invoice)
}

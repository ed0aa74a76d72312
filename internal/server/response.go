package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/couriersync/billing/internal/invoice/domain"
	pricingdomain "github.com/couriersync/billing/internal/pricing/domain"
)

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	errInvalidRequest = errors.New("invalid request body")
)

func respondData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

func respondList(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// AbortWithError maps domain errors onto HTTP statuses. Unknown errors are
// treated as internal and not echoed to the client.
func AbortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, ErrUnauthorized):
		status, message = http.StatusUnauthorized, err.Error()
	case errors.Is(err, ErrForbidden):
		status, message = http.StatusForbidden, err.Error()
	case errors.Is(err, pricingdomain.ErrRuleNotFound),
		errors.Is(err, invoicedomain.ErrInvoiceNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, invoicedomain.ErrInvalidTransition):
		status, message = http.StatusConflict, err.Error()
	case isValidationError(err):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, invoicedomain.ErrLineTotalMismatch):
		// Internal invariant violation; deliberately not exposed.
		status = http.StatusInternalServerError
	}

	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, errInvalidRequest),
		errors.Is(err, pricingdomain.ErrInvalidRuleName),
		errors.Is(err, pricingdomain.ErrInvalidRuleType),
		errors.Is(err, pricingdomain.ErrInvalidRuleValue),
		errors.Is(err, pricingdomain.ErrInvalidCustomerType),
		errors.Is(err, pricingdomain.ErrInvalidPriorityLevel),
		errors.Is(err, pricingdomain.ErrInvalidDistanceRange),
		errors.Is(err, pricingdomain.ErrInvalidWeightRange),
		errors.Is(err, pricingdomain.ErrInvalidDistance),
		errors.Is(err, pricingdomain.ErrInvalidWeight),
		errors.Is(err, invoicedomain.ErrInvalidStatus),
		errors.Is(err, invoicedomain.ErrInvalidItemType),
		errors.Is(err, invoicedomain.ErrInvalidQuantity),
		errors.Is(err, invoicedomain.ErrInvalidUnitPrice),
		errors.Is(err, invoicedomain.ErrMissingCustomer),
		errors.Is(err, invoicedomain.ErrMissingItems),
		errors.Is(err, invoicedomain.ErrMissingPaymentMethod):
		return true
	}
	return false
}

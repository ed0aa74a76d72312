package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	pricingdomain "github.com/couriersync/billing/internal/pricing/domain"
)

// @Summary      Calculate Delivery Price
// @Description  Compute the charge breakdown for a delivery context
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        request body pricingdomain.CalculateRequest true "Calculation context"
// @Success      200 {object} DataResponse
// @Router       /api/pricing/calculate [post]
func (s *Server) CalculatePrice(c *gin.Context) {
	var req pricingdomain.CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	calc, err := s.pricingSvc.CalculatePrice(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, calc)
}

// @Summary      List Active Pricing Rules
// @Tags         pricing
// @Produce      json
// @Success      200 {object} ListResponse
// @Router       /api/pricing/rules [get]
func (s *Server) ListActiveRules(c *gin.Context) {
	rules, err := s.pricingSvc.ListActiveRules(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, rules)
}

// @Summary      List Pricing Rules By Type
// @Tags         pricing
// @Produce      json
// @Param        ruleType path string true "Rule Type"
// @Success      200 {object} ListResponse
// @Router       /api/pricing/rules/type/{ruleType} [get]
func (s *Server) ListRulesByType(c *gin.Context) {
	ruleType := pricingdomain.RuleType(strings.ToUpper(strings.TrimSpace(c.Param("ruleType"))))
	rules, err := s.pricingSvc.ListRulesByType(c.Request.Context(), ruleType)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, rules)
}

// @Summary      List Pricing Rules By Customer
// @Tags         pricing
// @Produce      json
// @Param        customerId path string true "Customer ID"
// @Success      200 {object} ListResponse
// @Router       /api/pricing/rules/customer/{customerId} [get]
func (s *Server) ListRulesByCustomer(c *gin.Context) {
	customerID, err := uuid.Parse(strings.TrimSpace(c.Param("customerId")))
	if err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}
	rules, err := s.pricingSvc.ListRulesByCustomer(c.Request.Context(), customerID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, rules)
}

// @Summary      Create Pricing Rule
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        request body pricingdomain.RuleRequest true "Rule definition"
// @Success      200 {object} DataResponse
// @Router       /api/pricing/rules [post]
func (s *Server) CreateRule(c *gin.Context) {
	var req pricingdomain.RuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	rule, err := s.pricingSvc.CreateRule(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, rule)
}

// @Summary      Update Pricing Rule
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        id path string true "Rule ID"
// @Param        request body pricingdomain.RuleRequest true "Rule definition"
// @Success      200 {object} DataResponse
// @Router       /api/pricing/rules/{id} [put]
func (s *Server) UpdateRule(c *gin.Context) {
	id, err := parseSnowflakeID(c.Param("id"))
	if err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	var req pricingdomain.RuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	rule, err := s.pricingSvc.UpdateRule(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, rule)
}

// @Summary      Delete Pricing Rule
// @Tags         pricing
// @Param        id path string true "Rule ID"
// @Success      204
// @Router       /api/pricing/rules/{id} [delete]
func (s *Server) DeleteRule(c *gin.Context) {
	id, err := parseSnowflakeID(c.Param("id"))
	if err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	if err := s.pricingSvc.DeleteRule(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(204)
}

func parseSnowflakeID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}

package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CalculateRequest is the transport-level input of a price calculation.
// Optional fields fall back to server-side defaults: INDIVIDUAL customer
// type, NORMAL priority, 1.0 kg, delivery now.
type CalculateRequest struct {
	CustomerID    *uuid.UUID     `json:"customerId"`
	CustomerType  *CustomerType  `json:"customerType"`
	PriorityLevel *PriorityLevel `json:"priorityLevel"`
	DistanceKm    float64        `json:"distanceKm" binding:"required"`
	WeightKg      *float64       `json:"weightKg"`
	DeliveryTime  *time.Time     `json:"deliveryTime"`
}

// RuleRequest carries the writable fields of a pricing rule for create and
// update calls.
type RuleRequest struct {
	Name           string           `json:"name"`
	Description    *string          `json:"description"`
	RuleType       RuleType         `json:"ruleType"`
	Value          decimal.Decimal  `json:"value"`
	Unit           string           `json:"unit"`
	CustomerID     *uuid.UUID       `json:"customerId"`
	CustomerType   *CustomerType    `json:"customerType"`
	PriorityLevel  *PriorityLevel   `json:"priorityLevel"`
	MinDistanceKm  *decimal.Decimal `json:"minDistanceKm"`
	MaxDistanceKm  *decimal.Decimal `json:"maxDistanceKm"`
	MinWeightKg    *decimal.Decimal `json:"minWeightKg"`
	MaxWeightKg    *decimal.Decimal `json:"maxWeightKg"`
	TimeOfDayStart *string          `json:"timeOfDayStart"`
	TimeOfDayEnd   *string          `json:"timeOfDayEnd"`
	DayOfWeek      *string          `json:"dayOfWeek"`
	Active         *bool            `json:"active"`
	ValidFrom      *time.Time       `json:"validFrom"`
	ValidUntil     *time.Time       `json:"validUntil"`
	CreatedBy      uuid.UUID        `json:"createdBy"`
}

type Service interface {
	CalculatePrice(ctx context.Context, req CalculateRequest) (*PricingCalculation, error)
	ListActiveRules(ctx context.Context) ([]PricingRule, error)
	ListRulesByType(ctx context.Context, ruleType RuleType) ([]PricingRule, error)
	ListRulesByCustomer(ctx context.Context, customerID uuid.UUID) ([]PricingRule, error)
	CreateRule(ctx context.Context, req RuleRequest) (*PricingRule, error)
	UpdateRule(ctx context.Context, id snowflake.ID, req RuleRequest) (*PricingRule, error)
	DeleteRule(ctx context.Context, id snowflake.ID) error
}

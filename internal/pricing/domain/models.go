// Package domain defines the pricing rule model and the ephemeral
// calculation types used by the pricing engine.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RuleType string

const (
	RuleTypeBaseRate            RuleType = "BASE_RATE"
	RuleTypePerKmRate           RuleType = "PER_KM_RATE"
	RuleTypeUrgentSurcharge     RuleType = "URGENT_SURCHARGE"
	RuleTypeAfterHoursSurcharge RuleType = "AFTER_HOURS_SURCHARGE"
	RuleTypeWeekendSurcharge    RuleType = "WEEKEND_SURCHARGE"
	RuleTypeWeightSurcharge     RuleType = "WEIGHT_SURCHARGE"
	RuleTypeDistanceSurcharge   RuleType = "DISTANCE_SURCHARGE"
	RuleTypeCustom              RuleType = "CUSTOM"
)

func (t RuleType) Valid() bool {
	switch t {
	case RuleTypeBaseRate, RuleTypePerKmRate, RuleTypeUrgentSurcharge,
		RuleTypeAfterHoursSurcharge, RuleTypeWeekendSurcharge,
		RuleTypeWeightSurcharge, RuleTypeDistanceSurcharge, RuleTypeCustom:
		return true
	}
	return false
}

// DistanceScoped reports whether rules of this type are selected against the
// delivery distance, so min/max_distance_km bounds participate in matching.
func (t RuleType) DistanceScoped() bool {
	return t == RuleTypePerKmRate || t == RuleTypeDistanceSurcharge
}

// WeightScoped reports whether min/max_weight_kg bounds participate in matching.
func (t RuleType) WeightScoped() bool {
	return t == RuleTypeWeightSurcharge
}

type CustomerType string

const (
	CustomerTypeIndividual      CustomerType = "INDIVIDUAL"
	CustomerTypeBusiness        CustomerType = "BUSINESS"
	CustomerTypeMedicalFacility CustomerType = "MEDICAL_FACILITY"
)

func (t CustomerType) Valid() bool {
	switch t {
	case CustomerTypeIndividual, CustomerTypeBusiness, CustomerTypeMedicalFacility:
		return true
	}
	return false
}

type PriorityLevel string

const (
	PriorityLow    PriorityLevel = "LOW"
	PriorityNormal PriorityLevel = "NORMAL"
	PriorityHigh   PriorityLevel = "HIGH"
	PriorityUrgent PriorityLevel = "URGENT"
)

func (p PriorityLevel) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// PricingRule is a scoped rate or surcharge definition. Every scope field is
// optional; an unset field is a wildcard that matches any context. Rules are
// written by administrators and only ever read by the pricing engine.
type PricingRule struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"type:text;not null" json:"name"`
	Description *string      `gorm:"type:text" json:"description,omitempty"`

	RuleType RuleType        `gorm:"column:rule_type;type:text;not null;index" json:"ruleType"`
	Value    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"value"`
	Unit     string          `gorm:"type:text;not null;default:FLAT" json:"unit"`

	CustomerID     *uuid.UUID       `gorm:"column:customer_id;type:uuid;index" json:"customerId,omitempty"`
	CustomerType   *CustomerType    `gorm:"column:customer_type;type:text" json:"customerType,omitempty"`
	PriorityLevel  *PriorityLevel   `gorm:"column:priority_level;type:text" json:"priorityLevel,omitempty"`
	MinDistanceKm  *decimal.Decimal `gorm:"column:min_distance_km;type:numeric(10,2)" json:"minDistanceKm,omitempty"`
	MaxDistanceKm  *decimal.Decimal `gorm:"column:max_distance_km;type:numeric(10,2)" json:"maxDistanceKm,omitempty"`
	MinWeightKg    *decimal.Decimal `gorm:"column:min_weight_kg;type:numeric(10,2)" json:"minWeightKg,omitempty"`
	MaxWeightKg    *decimal.Decimal `gorm:"column:max_weight_kg;type:numeric(10,2)" json:"maxWeightKg,omitempty"`
	TimeOfDayStart *string          `gorm:"column:time_of_day_start;type:text" json:"timeOfDayStart,omitempty"`
	TimeOfDayEnd   *string          `gorm:"column:time_of_day_end;type:text" json:"timeOfDayEnd,omitempty"`
	DayOfWeek      *string          `gorm:"column:day_of_week;type:text" json:"dayOfWeek,omitempty"`

	// No gorm default tag: with one, Create drops a false value and the
	// column default reactivates the rule.
	Active     bool       `gorm:"not null" json:"active"`
	ValidFrom  *time.Time `gorm:"column:valid_from;type:date" json:"validFrom,omitempty"`
	ValidUntil *time.Time `gorm:"column:valid_until;type:date" json:"validUntil,omitempty"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null" json:"createdBy"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (PricingRule) TableName() string { return "pricing_rules" }

// Validate rejects rules that could corrupt a calculation. Out-of-range
// values are never clamped.
func (r *PricingRule) Validate() error {
	if r.Name == "" {
		return ErrInvalidRuleName
	}
	if !r.RuleType.Valid() {
		return ErrInvalidRuleType
	}
	if r.Value.IsNegative() {
		return ErrInvalidRuleValue
	}
	if r.CustomerType != nil && !r.CustomerType.Valid() {
		return ErrInvalidCustomerType
	}
	if r.PriorityLevel != nil && !r.PriorityLevel.Valid() {
		return ErrInvalidPriorityLevel
	}
	if r.MinDistanceKm != nil && r.MaxDistanceKm != nil && r.MinDistanceKm.GreaterThan(*r.MaxDistanceKm) {
		return ErrInvalidDistanceRange
	}
	if r.MinWeightKg != nil && r.MaxWeightKg != nil && r.MinWeightKg.GreaterThan(*r.MaxWeightKg) {
		return ErrInvalidWeightRange
	}
	return nil
}

// PricingContext carries the inputs of one price calculation. It is never
// persisted.
type PricingContext struct {
	CustomerID    *uuid.UUID
	CustomerType  CustomerType
	PriorityLevel PriorityLevel
	DistanceKm    float64
	WeightKg      float64
	DeliveryTime  time.Time
}

// PricingCalculation is the output of one calculation. Component fields not
// triggered by the context stay zero; Subtotal is always the sum of all
// eight components and Total is Subtotal plus TaxAmount.
type PricingCalculation struct {
	BaseRate            decimal.Decimal `json:"baseRate"`
	PerKmRate           decimal.Decimal `json:"perKmRate"`
	DistanceCharge      decimal.Decimal `json:"distanceCharge"`
	UrgentSurcharge     decimal.Decimal `json:"urgentSurcharge"`
	AfterHoursSurcharge decimal.Decimal `json:"afterHoursSurcharge"`
	WeekendSurcharge    decimal.Decimal `json:"weekendSurcharge"`
	WeightSurcharge     decimal.Decimal `json:"weightSurcharge"`
	DistanceSurcharge   decimal.Decimal `json:"distanceSurcharge"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	TaxAmount           decimal.Decimal `json:"taxAmount"`
	Total               decimal.Decimal `json:"total"`
}

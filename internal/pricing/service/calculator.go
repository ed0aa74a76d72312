package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/couriersync/billing/internal/config"
	pricingdomain "github.com/couriersync/billing/internal/pricing/domain"
	taxdomain "github.com/couriersync/billing/internal/tax/domain"
)

// RuleLookup resolves the single selected rule for a rule type, or nil when
// no rule applies and the configured default (or zero) should be used.
type RuleLookup func(pricingdomain.RuleType) *pricingdomain.PricingRule

// CalculatorConfig holds the parsed fallback rates and surcharge triggers.
type CalculatorConfig struct {
	DefaultBaseRate            decimal.Decimal
	DefaultPerKmRate           decimal.Decimal
	DefaultUrgentSurcharge     decimal.Decimal
	DefaultAfterHoursSurcharge decimal.Decimal
	DefaultWeekendSurcharge    decimal.Decimal
	WeightThresholdKg          float64
	DistanceThresholdKm        float64
	AfterHoursStartMinute      int
	AfterHoursEndMinute        int
}

func NewCalculatorConfig(cfg config.Config) (CalculatorConfig, error) {
	out := CalculatorConfig{
		WeightThresholdKg:   cfg.Pricing.WeightThresholdKg,
		DistanceThresholdKm: cfg.Pricing.DistanceThresholdKm,
	}

	for _, field := range []struct {
		raw  string
		dest *decimal.Decimal
	}{
		{cfg.Pricing.DefaultBaseRate, &out.DefaultBaseRate},
		{cfg.Pricing.DefaultPerKmRate, &out.DefaultPerKmRate},
		{cfg.Pricing.DefaultUrgentSurcharge, &out.DefaultUrgentSurcharge},
		{cfg.Pricing.DefaultAfterHoursSurcharge, &out.DefaultAfterHoursSurcharge},
		{cfg.Pricing.DefaultWeekendSurcharge, &out.DefaultWeekendSurcharge},
	} {
		value, err := decimal.NewFromString(field.raw)
		if err != nil {
			return CalculatorConfig{}, fmt.Errorf("parse pricing default %q: %w", field.raw, err)
		}
		if value.IsNegative() {
			return CalculatorConfig{}, fmt.Errorf("pricing default %q must not be negative", field.raw)
		}
		*field.dest = value
	}

	var err error
	if out.AfterHoursStartMinute, err = parseClockMinute(cfg.Pricing.AfterHoursStart); err != nil {
		return CalculatorConfig{}, err
	}
	if out.AfterHoursEndMinute, err = parseClockMinute(cfg.Pricing.AfterHoursEnd); err != nil {
		return CalculatorConfig{}, err
	}
	return out, nil
}

func parseClockMinute(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	return hour*60 + minute, nil
}

// Calculator computes each charge component of a calculation from selected
// rules or configured defaults and closes the result with the tax engine.
// It has no state beyond configuration and is safe for concurrent use.
type Calculator struct {
	cfg CalculatorConfig
	tax taxdomain.Engine
}

func NewCalculator(cfg CalculatorConfig, tax taxdomain.Engine) *Calculator {
	return &Calculator{cfg: cfg, tax: tax}
}

// RequiredRuleTypes lists the rule types the lookup must be able to answer
// for the given context, so the caller can prefetch one snapshot per type.
func (c *Calculator) RequiredRuleTypes(ctx pricingdomain.PricingContext) []pricingdomain.RuleType {
	types := []pricingdomain.RuleType{
		pricingdomain.RuleTypeBaseRate,
		pricingdomain.RuleTypePerKmRate,
	}
	if ctx.PriorityLevel == pricingdomain.PriorityUrgent {
		types = append(types, pricingdomain.RuleTypeUrgentSurcharge)
	}
	if c.isAfterHours(ctx.DeliveryTime) {
		types = append(types, pricingdomain.RuleTypeAfterHoursSurcharge)
	}
	if isWeekend(ctx.DeliveryTime) {
		types = append(types, pricingdomain.RuleTypeWeekendSurcharge)
	}
	if ctx.WeightKg > c.cfg.WeightThresholdKg {
		types = append(types, pricingdomain.RuleTypeWeightSurcharge)
	}
	if ctx.DistanceKm > c.cfg.DistanceThresholdKm {
		types = append(types, pricingdomain.RuleTypeDistanceSurcharge)
	}
	return types
}

// Compute builds the full calculation. Every amount is rounded half-up to
// two decimals at the point it is produced, so identical inputs yield
// byte-identical results.
func (c *Calculator) Compute(ctx pricingdomain.PricingContext, lookup RuleLookup) *pricingdomain.PricingCalculation {
	calc := &pricingdomain.PricingCalculation{
		UrgentSurcharge:     decimal.Zero,
		AfterHoursSurcharge: decimal.Zero,
		WeekendSurcharge:    decimal.Zero,
		WeightSurcharge:     decimal.Zero,
		DistanceSurcharge:   decimal.Zero,
	}

	calc.BaseRate = ruleValueOr(lookup(pricingdomain.RuleTypeBaseRate), c.cfg.DefaultBaseRate)
	calc.PerKmRate = ruleValueOr(lookup(pricingdomain.RuleTypePerKmRate), c.cfg.DefaultPerKmRate)
	calc.DistanceCharge = calc.PerKmRate.Mul(decimal.NewFromFloat(ctx.DistanceKm)).Round(2)

	if ctx.PriorityLevel == pricingdomain.PriorityUrgent {
		calc.UrgentSurcharge = ruleValueOr(lookup(pricingdomain.RuleTypeUrgentSurcharge), c.cfg.DefaultUrgentSurcharge)
	}
	if c.isAfterHours(ctx.DeliveryTime) {
		calc.AfterHoursSurcharge = ruleValueOr(lookup(pricingdomain.RuleTypeAfterHoursSurcharge), c.cfg.DefaultAfterHoursSurcharge)
	}
	if isWeekend(ctx.DeliveryTime) {
		calc.WeekendSurcharge = ruleValueOr(lookup(pricingdomain.RuleTypeWeekendSurcharge), c.cfg.DefaultWeekendSurcharge)
	}

	// Weight and extra-distance surcharges have no defaults: the threshold
	// alone is not enough, a matching rule must exist.
	if ctx.WeightKg > c.cfg.WeightThresholdKg {
		if rule := lookup(pricingdomain.RuleTypeWeightSurcharge); rule != nil {
			calc.WeightSurcharge = rule.Value.Round(2)
		}
	}
	if ctx.DistanceKm > c.cfg.DistanceThresholdKm {
		if rule := lookup(pricingdomain.RuleTypeDistanceSurcharge); rule != nil {
			calc.DistanceSurcharge = rule.Value.Round(2)
		}
	}

	calc.Subtotal = calc.BaseRate.
		Add(calc.DistanceCharge).
		Add(calc.UrgentSurcharge).
		Add(calc.AfterHoursSurcharge).
		Add(calc.WeekendSurcharge).
		Add(calc.WeightSurcharge).
		Add(calc.DistanceSurcharge)

	calc.TaxAmount, calc.Total = c.tax.ApplyTax(calc.Subtotal)
	return calc
}

// isAfterHours reports whether the clock component falls outside business
// hours. The start bound is inclusive business time (08:00:00 is not
// after-hours), the end bound is inclusive after-hours (18:00:00 is).
func (c *Calculator) isAfterHours(t time.Time) bool {
	minute := t.Hour()*60 + t.Minute()
	return minute < c.cfg.AfterHoursStartMinute || minute >= c.cfg.AfterHoursEndMinute
}

func isWeekend(t time.Time) bool {
	day := t.Weekday()
	return day == time.Saturday || day == time.Sunday
}

func ruleValueOr(rule *pricingdomain.PricingRule, fallback decimal.Decimal) decimal.Decimal {
	if rule != nil {
		return rule.Value.Round(2)
	}
	return fallback.Round(2)
}

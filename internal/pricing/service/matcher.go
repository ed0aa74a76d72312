package service

import (
	"time"

	"github.com/shopspring/decimal"
	pricingdomain "github.com/couriersync/billing/internal/pricing/domain"
)

// MatchRules filters a rule snapshot down to the rules whose scope is
// compatible with the context. Pure function; an empty result means the
// caller falls back to defaults.
func MatchRules(rules []pricingdomain.PricingRule, ctx pricingdomain.PricingContext, today time.Time) []pricingdomain.PricingRule {
	matched := make([]pricingdomain.PricingRule, 0, len(rules))
	for _, rule := range rules {
		if ruleMatches(rule, ctx, today) {
			matched = append(matched, rule)
		}
	}
	return matched
}

func ruleMatches(rule pricingdomain.PricingRule, ctx pricingdomain.PricingContext, today time.Time) bool {
	if !rule.Active {
		return false
	}
	day := today.Truncate(24 * time.Hour)
	if rule.ValidFrom != nil && rule.ValidFrom.After(day) {
		return false
	}
	if rule.ValidUntil != nil && rule.ValidUntil.Before(day) {
		return false
	}

	if rule.CustomerID != nil {
		if ctx.CustomerID == nil || *rule.CustomerID != *ctx.CustomerID {
			return false
		}
	}
	if rule.CustomerType != nil && *rule.CustomerType != ctx.CustomerType {
		return false
	}
	if rule.PriorityLevel != nil && *rule.PriorityLevel != ctx.PriorityLevel {
		return false
	}

	if rule.RuleType.DistanceScoped() {
		if !withinBounds(rule.MinDistanceKm, rule.MaxDistanceKm, ctx.DistanceKm) {
			return false
		}
	}
	if rule.RuleType.WeightScoped() {
		if !withinBounds(rule.MinWeightKg, rule.MaxWeightKg, ctx.WeightKg) {
			return false
		}
	}
	return true
}

// withinBounds checks inclusive min/max bounds; a nil bound is a wildcard.
func withinBounds(min, max *decimal.Decimal, value float64) bool {
	v := decimal.NewFromFloat(value)
	if min != nil && min.GreaterThan(v) {
		return false
	}
	if max != nil && max.LessThan(v) {
		return false
	}
	return true
}

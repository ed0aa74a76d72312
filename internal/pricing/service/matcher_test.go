package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	pricingdomain "github.com/couriersync/billing/internal/pricing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func customerTypePtr(t pricingdomain.CustomerType) *pricingdomain.CustomerType { return &t }
func priorityPtr(p pricingdomain.PriorityLevel) *pricingdomain.PriorityLevel   { return &p }
func timePtr(t time.Time) *time.Time                                           { return &t }

func baseContext() pricingdomain.PricingContext {
	return pricingdomain.PricingContext{
		CustomerType:  pricingdomain.CustomerTypeIndividual,
		PriorityLevel: pricingdomain.PriorityNormal,
		DistanceKm:    10,
		WeightKg:      1,
		DeliveryTime:  time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC),
	}
}

func TestMatchRulesWildcardMatchesAnyContext(t *testing.T) {
	rules := []pricingdomain.PricingRule{
		{ID: 1, RuleType: pricingdomain.RuleTypeBaseRate, Active: true, Value: decimal.RequireFromString("15.00")},
	}

	matched := MatchRules(rules, baseContext(), time.Now().UTC())
	require.Len(t, matched, 1)
}

func TestMatchRulesSkipsInactive(t *testing.T) {
	rules := []pricingdomain.PricingRule{
		{ID: 1, RuleType: pricingdomain.RuleTypeBaseRate, Active: false},
	}
	assert.Empty(t, MatchRules(rules, baseContext(), time.Now().UTC()))
}

func TestMatchRulesValidityWindowInclusive(t *testing.T) {
	today := time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC)
	from := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	until := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

	rules := []pricingdomain.PricingRule{
		{ID: 1, RuleType: pricingdomain.RuleTypeBaseRate, Active: true, ValidFrom: timePtr(from), ValidUntil: timePtr(until)},
	}
	assert.Len(t, MatchRules(rules, baseContext(), today), 1, "bounds are inclusive")

	expired := []pricingdomain.PricingRule{
		{ID: 2, RuleType: pricingdomain.RuleTypeBaseRate, Active: true, ValidUntil: timePtr(until.AddDate(0, 0, -1))},
	}
	assert.Empty(t, MatchRules(expired, baseContext(), today))

	future := []pricingdomain.PricingRule{
		{ID: 3, RuleType: pricingdomain.RuleTypeBaseRate, Active: true, ValidFrom: timePtr(from.AddDate(0, 0, 1))},
	}
	assert.Empty(t, MatchRules(future, baseContext(), today))
}

func TestMatchRulesCustomerScope(t *testing.T) {
	ruleCustomer := uuid.New()
	otherCustomer := uuid.New()

	rules := []pricingdomain.PricingRule{
		{ID: 1, RuleType: pricingdomain.RuleTypeBaseRate, Active: true, CustomerID: &ruleCustomer},
	}

	ctx := baseContext()
	ctx.CustomerID = &ruleCustomer
	assert.Len(t, MatchRules(rules, ctx, time.Now().UTC()), 1)

	ctx.CustomerID = &otherCustomer
	assert.Empty(t, MatchRules(rules, ctx, time.Now().UTC()))

	ctx.CustomerID = nil
	assert.Empty(t, MatchRules(rules, ctx, time.Now().UTC()), "customer-scoped rule never matches an anonymous context")
}

func TestMatchRulesCustomerTypeAndPriorityScope(t *testing.T) {
	rules := []pricingdomain.PricingRule{
		{
			ID: 1, RuleType: pricingdomain.RuleTypeBaseRate, Active: true,
			CustomerType:  customerTypePtr(pricingdomain.CustomerTypeMedicalFacility),
			PriorityLevel: priorityPtr(pricingdomain.PriorityUrgent),
		},
	}

	ctx := baseContext()
	assert.Empty(t, MatchRules(rules, ctx, time.Now().UTC()))

	ctx.CustomerType = pricingdomain.CustomerTypeMedicalFacility
	ctx.PriorityLevel = pricingdomain.PriorityUrgent
	assert.Len(t, MatchRules(rules, ctx, time.Now().UTC()), 1)
}

func TestMatchRulesDistanceBoundsInclusive(t *testing.T) {
	rules := []pricingdomain.PricingRule{
		{
			ID: 1, RuleType: pricingdomain.RuleTypePerKmRate, Active: true,
			MinDistanceKm: decPtr("10.00"), MaxDistanceKm: decPtr("50.00"),
		},
	}

	ctx := baseContext()
	for _, tc := range []struct {
		distance float64
		matches  bool
	}{
		{9.99, false},
		{10.00, true},
		{50.00, true},
		{50.01, false},
	} {
		ctx.DistanceKm = tc.distance
		got := MatchRules(rules, ctx, time.Now().UTC())
		assert.Equal(t, tc.matches, len(got) == 1, "distance %v", tc.distance)
	}
}

func TestMatchRulesDistanceBoundsIgnoredForUnscopedTypes(t *testing.T) {
	// A BASE_RATE rule carrying distance bounds still matches any distance;
	// bounds only participate for distance-scoped rule types.
	rules := []pricingdomain.PricingRule{
		{
			ID: 1, RuleType: pricingdomain.RuleTypeBaseRate, Active: true,
			MinDistanceKm: decPtr("100.00"),
		},
	}
	ctx := baseContext()
	ctx.DistanceKm = 5
	assert.Len(t, MatchRules(rules, ctx, time.Now().UTC()), 1)
}

func TestMatchRulesWeightBoundsInclusive(t *testing.T) {
	rules := []pricingdomain.PricingRule{
		{
			ID: 1, RuleType: pricingdomain.RuleTypeWeightSurcharge, Active: true,
			MinWeightKg: decPtr("10.00"), MaxWeightKg: decPtr("20.00"),
		},
	}

	ctx := baseContext()
	ctx.WeightKg = 10.00
	assert.Len(t, MatchRules(rules, ctx, time.Now().UTC()), 1)

	ctx.WeightKg = 20.01
	assert.Empty(t, MatchRules(rules, ctx, time.Now().UTC()))
}

package service

import (
	pricingdomain "github.com/couriersync/billing/internal/pricing/domain"
)

// SelectRule picks the single most specific rule from a matched candidate
// set, or nil when the set is empty. The ordering is total: specificity
// score first, then field priority, then most recent created_at, then
// highest ID, so repeated selection over the same snapshot is stable.
func SelectRule(candidates []pricingdomain.PricingRule) *pricingdomain.PricingRule {
	if len(candidates) == 0 {
		return nil
	}
	best := candidates[0]
	for _, candidate := range candidates[1:] {
		if moreSpecific(candidate, best) {
			best = candidate
		}
	}
	return &best
}

type scopeProfile struct {
	customerID    bool
	customerType  bool
	priorityLevel bool
	quantityRange bool
	timeScope     bool
}

func profileOf(r pricingdomain.PricingRule) scopeProfile {
	return scopeProfile{
		customerID:    r.CustomerID != nil,
		customerType:  r.CustomerType != nil,
		priorityLevel: r.PriorityLevel != nil,
		quantityRange: r.MinDistanceKm != nil || r.MaxDistanceKm != nil || r.MinWeightKg != nil || r.MaxWeightKg != nil,
		timeScope:     r.TimeOfDayStart != nil || r.TimeOfDayEnd != nil || r.DayOfWeek != nil,
	}
}

func (p scopeProfile) score() int {
	score := 0
	for _, set := range []bool{p.customerID, p.customerType, p.priorityLevel, p.quantityRange, p.timeScope} {
		if set {
			score++
		}
	}
	return score
}

func moreSpecific(a, b pricingdomain.PricingRule) bool {
	pa, pb := profileOf(a), profileOf(b)

	if sa, sb := pa.score(), pb.score(); sa != sb {
		return sa > sb
	}

	// Equal scores: the higher-priority scope field wins the tie.
	pairs := [][2]bool{
		{pa.customerID, pb.customerID},
		{pa.customerType, pb.customerType},
		{pa.priorityLevel, pb.priorityLevel},
		{pa.quantityRange, pb.quantityRange},
		{pa.timeScope, pb.timeScope},
	}
	for _, pair := range pairs {
		if pair[0] != pair[1] {
			return pair[0]
		}
	}

	// Fully tied on scope: last defined wins.
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

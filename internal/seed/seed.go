// Package seed loads the starter pricing rules a fresh deployment needs
// before administrators define their own.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	pricingdomain "github.com/couriersync/billing/internal/pricing/domain"
	"gorm.io/gorm"
)

type starterRule struct {
	name     string
	ruleType pricingdomain.RuleType
	value    string
	unit     string
}

var starterRules = []starterRule{
	{"Standard base rate", pricingdomain.RuleTypeBaseRate, "15.00", "FLAT"},
	{"Standard per-km rate", pricingdomain.RuleTypePerKmRate, "1.20", "PER_KM"},
	{"Urgent delivery surcharge", pricingdomain.RuleTypeUrgentSurcharge, "5.00", "FLAT"},
	{"After-hours surcharge", pricingdomain.RuleTypeAfterHoursSurcharge, "7.50", "FLAT"},
	{"Weekend surcharge", pricingdomain.RuleTypeWeekendSurcharge, "10.00", "FLAT"},
}

// EnsureStarterRules inserts one global rule per core rule type, skipping any
// type that already has a rule. Safe to run on every startup.
func EnsureStarterRules(db *gorm.DB) (int, error) {
	if db == nil {
		return 0, errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return 0, err
	}

	ctx := context.Background()
	inserted := 0
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, starter := range starterRules {
			var count int64
			if err := tx.Model(&pricingdomain.PricingRule{}).
				Where("rule_type = ?", starter.ruleType).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}

			now := time.Now().UTC()
			rule := &pricingdomain.PricingRule{
				ID:        node.Generate(),
				Name:      starter.name,
				RuleType:  starter.ruleType,
				Value:     decimal.RequireFromString(starter.value),
				Unit:      starter.unit,
				Active:    true,
				CreatedBy: uuid.Nil,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := rule.Validate(); err != nil {
				return err
			}
			if err := tx.Create(rule).Error; err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

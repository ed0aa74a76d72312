package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, rule *PricingRule) error
	Update(ctx context.Context, db *gorm.DB, rule *PricingRule) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*PricingRule, error)
	FindActive(ctx context.Context, db *gorm.DB) ([]PricingRule, error)
	FindByRuleType(ctx context.Context, db *gorm.DB, ruleType RuleType) ([]PricingRule, error)
	FindByCustomerID(ctx context.Context, db *gorm.DB, customerID uuid.UUID) ([]PricingRule, error)

	// FindActiveRulesByType returns all rules of the given type that are
	// active and inside their validity window on the given date. Scope
	// filtering beyond that is the matcher's job.
	FindActiveRulesByType(ctx context.Context, db *gorm.DB, ruleType RuleType, today time.Time) ([]PricingRule, error)
}

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	pricingdomain "github.com/couriersync/billing/internal/pricing/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() pricingdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, rule *pricingdomain.PricingRule) error {
	return db.WithContext(ctx).Create(rule).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, rule *pricingdomain.PricingRule) error {
	return db.WithContext(ctx).Save(rule).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	res := db.WithContext(ctx).Delete(&pricingdomain.PricingRule{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pricingdomain.ErrRuleNotFound
	}
	return nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*pricingdomain.PricingRule, error) {
	var rule pricingdomain.PricingRule
	err := db.WithContext(ctx).First(&rule, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *repo) FindActive(ctx context.Context, db *gorm.DB) ([]pricingdomain.PricingRule, error) {
	var rules []pricingdomain.PricingRule
	err := db.WithContext(ctx).
		Where("active = ?", true).
		Order("rule_type, created_at DESC").
		Find(&rules).Error
	return rules, err
}

func (r *repo) FindByRuleType(ctx context.Context, db *gorm.DB, ruleType pricingdomain.RuleType) ([]pricingdomain.PricingRule, error) {
	var rules []pricingdomain.PricingRule
	err := db.WithContext(ctx).
		Where("rule_type = ?", ruleType).
		Order("created_at DESC").
		Find(&rules).Error
	return rules, err
}

func (r *repo) FindByCustomerID(ctx context.Context, db *gorm.DB, customerID uuid.UUID) ([]pricingdomain.PricingRule, error) {
	var rules []pricingdomain.PricingRule
	err := db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&rules).Error
	return rules, err
}

func (r *repo) FindActiveRulesByType(ctx context.Context, db *gorm.DB, ruleType pricingdomain.RuleType, today time.Time) ([]pricingdomain.PricingRule, error) {
	day := today.Truncate(24 * time.Hour)
	var rules []pricingdomain.PricingRule
	err := db.WithContext(ctx).
		Where("rule_type = ? AND active = ?", ruleType, true).
		Where("valid_from IS NULL OR valid_from <= ?", day).
		Where("valid_until IS NULL OR valid_until >= ?", day).
		Order("created_at DESC").
		Find(&rules).Error
	return rules, err
}

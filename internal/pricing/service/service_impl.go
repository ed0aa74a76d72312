package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/couriersync/billing/internal/clock"
	pricingdomain "github.com/couriersync/billing/internal/pricing/domain"
	"github.com/couriersync/billing/internal/pricing/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID *snowflake.Node
	repo  pricingdomain.Repository
	clock clock.Clock
	calc  *Calculator
}

type ServiceParam struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Calculator *Calculator
}

func NewService(p ServiceParam) pricingdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("pricing.service"),

		genID: p.GenID,
		repo:  repository.Provide(),
		clock: p.Clock,
		calc:  p.Calculator,
	}
}

func (s *Service) CalculatePrice(ctx context.Context, req pricingdomain.CalculateRequest) (*pricingdomain.PricingCalculation, error) {
	if req.DistanceKm < 0 {
		return nil, pricingdomain.ErrInvalidDistance
	}
	if req.WeightKg != nil && *req.WeightKg < 0 {
		return nil, pricingdomain.ErrInvalidWeight
	}
	if req.CustomerType != nil && !req.CustomerType.Valid() {
		return nil, pricingdomain.ErrInvalidCustomerType
	}
	if req.PriorityLevel != nil && !req.PriorityLevel.Valid() {
		return nil, pricingdomain.ErrInvalidPriorityLevel
	}

	now := s.clock.Now(ctx)
	pctx := buildContext(req, now)

	selected := make(map[pricingdomain.RuleType]*pricingdomain.PricingRule)
	for _, ruleType := range s.calc.RequiredRuleTypes(pctx) {
		snapshot, err := s.repo.FindActiveRulesByType(ctx, s.db, ruleType, now)
		if err != nil {
			return nil, err
		}
		selected[ruleType] = SelectRule(MatchRules(snapshot, pctx, now))
	}

	calc := s.calc.Compute(pctx, func(t pricingdomain.RuleType) *pricingdomain.PricingRule {
		return selected[t]
	})

	s.log.Debug("price calculated",
		zap.Float64("distance_km", pctx.DistanceKm),
		zap.Float64("weight_kg", pctx.WeightKg),
		zap.String("priority", string(pctx.PriorityLevel)),
		zap.String("subtotal", calc.Subtotal.String()),
		zap.String("total", calc.Total.String()),
	)
	return calc, nil
}

// buildContext applies the server-side defaults for the optional inputs.
func buildContext(req pricingdomain.CalculateRequest, now time.Time) pricingdomain.PricingContext {
	pctx := pricingdomain.PricingContext{
		CustomerID:    req.CustomerID,
		CustomerType:  pricingdomain.CustomerTypeIndividual,
		PriorityLevel: pricingdomain.PriorityNormal,
		DistanceKm:    req.DistanceKm,
		WeightKg:      1.0,
		DeliveryTime:  now,
	}
	if req.CustomerType != nil {
		pctx.CustomerType = *req.CustomerType
	}
	if req.PriorityLevel != nil {
		pctx.PriorityLevel = *req.PriorityLevel
	}
	if req.WeightKg != nil {
		pctx.WeightKg = *req.WeightKg
	}
	if req.DeliveryTime != nil {
		pctx.DeliveryTime = *req.DeliveryTime
	}
	return pctx
}

func (s *Service) ListActiveRules(ctx context.Context) ([]pricingdomain.PricingRule, error) {
	return s.repo.FindActive(ctx, s.db)
}

func (s *Service) ListRulesByType(ctx context.Context, ruleType pricingdomain.RuleType) ([]pricingdomain.PricingRule, error) {
	if !ruleType.Valid() {
		return nil, pricingdomain.ErrInvalidRuleType
	}
	return s.repo.FindByRuleType(ctx, s.db, ruleType)
}

func (s *Service) ListRulesByCustomer(ctx context.Context, customerID uuid.UUID) ([]pricingdomain.PricingRule, error) {
	return s.repo.FindByCustomerID(ctx, s.db, customerID)
}

func (s *Service) CreateRule(ctx context.Context, req pricingdomain.RuleRequest) (*pricingdomain.PricingRule, error) {
	now := s.clock.Now(ctx)
	rule := ruleFromRequest(req)
	rule.ID = s.genID.Generate()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	if err := rule.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Insert(ctx, s.db, rule); err != nil {
		return nil, err
	}

	s.log.Info("pricing rule created",
		zap.String("rule_id", rule.ID.String()),
		zap.String("rule_type", string(rule.RuleType)),
	)
	return rule, nil
}

func (s *Service) UpdateRule(ctx context.Context, id snowflake.ID, req pricingdomain.RuleRequest) (*pricingdomain.PricingRule, error) {
	existing, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, pricingdomain.ErrRuleNotFound
	}

	updated := ruleFromRequest(req)
	updated.ID = existing.ID
	updated.CreatedBy = existing.CreatedBy
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.clock.Now(ctx)

	if err := updated.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, s.db, updated); err != nil {
		return nil, err
	}

	s.log.Info("pricing rule updated", zap.String("rule_id", id.String()))
	return updated, nil
}

func (s *Service) DeleteRule(ctx context.Context, id snowflake.ID) error {
	if err := s.repo.Delete(ctx, s.db, id); err != nil {
		return err
	}
	s.log.Info("pricing rule deleted", zap.String("rule_id", id.String()))
	return nil
}

func ruleFromRequest(req pricingdomain.RuleRequest) *pricingdomain.PricingRule {
	rule := &pricingdomain.PricingRule{
		Name:           req.Name,
		Description:    req.Description,
		RuleType:       req.RuleType,
		Value:          req.Value,
		Unit:           req.Unit,
		CustomerID:     req.CustomerID,
		CustomerType:   req.CustomerType,
		PriorityLevel:  req.PriorityLevel,
		MinDistanceKm:  req.MinDistanceKm,
		MaxDistanceKm:  req.MaxDistanceKm,
		MinWeightKg:    req.MinWeightKg,
		MaxWeightKg:    req.MaxWeightKg,
		TimeOfDayStart: req.TimeOfDayStart,
		TimeOfDayEnd:   req.TimeOfDayEnd,
		DayOfWeek:      req.DayOfWeek,
		Active:         true,
		ValidFrom:      req.ValidFrom,
		ValidUntil:     req.ValidUntil,
		CreatedBy:      req.CreatedBy,
	}
	if rule.Unit == "" {
		rule.Unit = "FLAT"
	}
	if req.Active != nil {
		rule.Active = *req.Active
	}
	return rule
}

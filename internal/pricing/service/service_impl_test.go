package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	pricingdomain "github.com/couriersync/billing/internal/pricing/domain"
	taxservice "github.com/couriersync/billing/internal/tax/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixedClock struct {
	at time.Time
}

func (c *fixedClock) Now(context.Context) time.Time { return c.at }

type pricingFixture struct {
	svc   pricingdomain.Service
	clock *fixedClock
	db    *gorm.DB
}

func newPricingFixture(t *testing.T) *pricingFixture {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&pricingdomain.PricingRule{}))

	cfg := testConfig()
	calcCfg, err := NewCalculatorConfig(cfg)
	require.NoError(t, err)
	engine, err := taxservice.NewEngine(cfg)
	require.NoError(t, err)
	node, err := snowflake.NewNode(3)
	require.NoError(t, err)

	clk := &fixedClock{at: time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)}
	svc := NewService(ServiceParam{
		DB:         conn,
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      clk,
		Calculator: NewCalculator(calcCfg, engine),
	})
	return &pricingFixture{svc: svc, clock: clk, db: conn}
}

func baseRateRequest(value string) pricingdomain.RuleRequest {
	return pricingdomain.RuleRequest{
		Name:      "base rate",
		RuleType:  pricingdomain.RuleTypeBaseRate,
		Value:     decimal.RequireFromString(value),
		CreatedBy: uuid.New(),
	}
}

func TestCalculatePriceUsesDefaultsWithoutRules(t *testing.T) {
	f := newPricingFixture(t)

	calc, err := f.svc.CalculatePrice(context.Background(), pricingdomain.CalculateRequest{DistanceKm: 10})
	require.NoError(t, err)
	assert.Equal(t, "15.00", calc.BaseRate.StringFixed(2))
	assert.Equal(t, "12.00", calc.DistanceCharge.StringFixed(2))
	assert.Equal(t, "27.00", calc.Subtotal.StringFixed(2))
	assert.Equal(t, "29.70", calc.Total.StringFixed(2))
}

func TestCalculatePriceCustomerSpecificRuleBeatsGlobal(t *testing.T) {
	f := newPricingFixture(t)
	ctx := context.Background()
	customerID := uuid.New()

	_, err := f.svc.CreateRule(ctx, baseRateRequest("18.00"))
	require.NoError(t, err)

	scoped := baseRateRequest("20.00")
	scoped.CustomerID = &customerID
	_, err = f.svc.CreateRule(ctx, scoped)
	require.NoError(t, err)

	calc, err := f.svc.CalculatePrice(ctx, pricingdomain.CalculateRequest{
		CustomerID: &customerID,
		DistanceKm: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "20.00", calc.BaseRate.StringFixed(2))

	// Without the customer the global rule applies.
	calc, err = f.svc.CalculatePrice(ctx, pricingdomain.CalculateRequest{DistanceKm: 1})
	require.NoError(t, err)
	assert.Equal(t, "18.00", calc.BaseRate.StringFixed(2))
}

func TestCalculatePriceIgnoresExpiredRules(t *testing.T) {
	f := newPricingFixture(t)
	ctx := context.Background()

	expired := baseRateRequest("99.00")
	until := f.clock.at.AddDate(0, 0, -1)
	expired.ValidUntil = &until
	_, err := f.svc.CreateRule(ctx, expired)
	require.NoError(t, err)

	calc, err := f.svc.CalculatePrice(ctx, pricingdomain.CalculateRequest{DistanceKm: 1})
	require.NoError(t, err)
	assert.Equal(t, "15.00", calc.BaseRate.StringFixed(2), "expired rule must not apply")
}

func TestCalculatePriceValidation(t *testing.T) {
	f := newPricingFixture(t)
	ctx := context.Background()

	_, err := f.svc.CalculatePrice(ctx, pricingdomain.CalculateRequest{DistanceKm: -1})
	require.ErrorIs(t, err, pricingdomain.ErrInvalidDistance)

	weight := -0.5
	_, err = f.svc.CalculatePrice(ctx, pricingdomain.CalculateRequest{DistanceKm: 1, WeightKg: &weight})
	require.ErrorIs(t, err, pricingdomain.ErrInvalidWeight)

	badType := pricingdomain.CustomerType("ALIEN")
	_, err = f.svc.CalculatePrice(ctx, pricingdomain.CalculateRequest{DistanceKm: 1, CustomerType: &badType})
	require.ErrorIs(t, err, pricingdomain.ErrInvalidCustomerType)

	badPriority := pricingdomain.PriorityLevel("WHENEVER")
	_, err = f.svc.CalculatePrice(ctx, pricingdomain.CalculateRequest{DistanceKm: 1, PriorityLevel: &badPriority})
	require.ErrorIs(t, err, pricingdomain.ErrInvalidPriorityLevel)
}

func TestCreateRuleValidation(t *testing.T) {
	f := newPricingFixture(t)
	ctx := context.Background()

	req := baseRateRequest("15.00")
	req.Name = ""
	_, err := f.svc.CreateRule(ctx, req)
	require.ErrorIs(t, err, pricingdomain.ErrInvalidRuleName)

	req = baseRateRequest("15.00")
	req.RuleType = "MYSTERY"
	_, err = f.svc.CreateRule(ctx, req)
	require.ErrorIs(t, err, pricingdomain.ErrInvalidRuleType)

	req = baseRateRequest("-1.00")
	_, err = f.svc.CreateRule(ctx, req)
	require.ErrorIs(t, err, pricingdomain.ErrInvalidRuleValue)

	req = baseRateRequest("15.00")
	req.MinDistanceKm = decPtr("50.00")
	req.MaxDistanceKm = decPtr("10.00")
	_, err = f.svc.CreateRule(ctx, req)
	require.ErrorIs(t, err, pricingdomain.ErrInvalidDistanceRange)
}

func TestRuleCRUDRoundTrip(t *testing.T) {
	f := newPricingFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateRule(ctx, baseRateRequest("15.00"))
	require.NoError(t, err)
	assert.True(t, created.Active)
	assert.Equal(t, "FLAT", created.Unit)

	active, err := f.svc.ListActiveRules(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)

	byType, err := f.svc.ListRulesByType(ctx, pricingdomain.RuleTypeBaseRate)
	require.NoError(t, err)
	require.Len(t, byType, 1)

	update := baseRateRequest("17.50")
	update.Name = "base rate v2"
	updated, err := f.svc.UpdateRule(ctx, created.ID, update)
	require.NoError(t, err)
	assert.Equal(t, "base rate v2", updated.Name)
	assert.Equal(t, "17.50", updated.Value.StringFixed(2))
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	require.NoError(t, f.svc.DeleteRule(ctx, created.ID))
	require.ErrorIs(t, f.svc.DeleteRule(ctx, created.ID), pricingdomain.ErrRuleNotFound)
}

func TestCreateRuleInactiveStaysInactive(t *testing.T) {
	f := newPricingFixture(t)
	ctx := context.Background()

	inactive := false
	req := baseRateRequest("99.00")
	req.Active = &inactive
	created, err := f.svc.CreateRule(ctx, req)
	require.NoError(t, err)
	assert.False(t, created.Active)

	stored := &pricingdomain.PricingRule{}
	require.NoError(t, f.db.First(stored, "id = ?", created.ID).Error)
	assert.False(t, stored.Active, "rule inserted with Active=false must stay inactive")

	active, err := f.svc.ListActiveRules(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	calc, err := f.svc.CalculatePrice(ctx, pricingdomain.CalculateRequest{DistanceKm: 1})
	require.NoError(t, err)
	assert.Equal(t, "15.00", calc.BaseRate.StringFixed(2), "inactive rule must not price anything")
}

func TestUpdateRuleUnknownID(t *testing.T) {
	f := newPricingFixture(t)
	_, err := f.svc.UpdateRule(context.Background(), 424242, baseRateRequest("15.00"))
	require.ErrorIs(t, err, pricingdomain.ErrRuleNotFound)
}

func TestListRulesByCustomer(t *testing.T) {
	f := newPricingFixture(t)
	ctx := context.Background()
	customerID := uuid.New()

	scoped := baseRateRequest("20.00")
	scoped.CustomerID = &customerID
	_, err := f.svc.CreateRule(ctx, scoped)
	require.NoError(t, err)
	_, err = f.svc.CreateRule(ctx, baseRateRequest("15.00"))
	require.NoError(t, err)

	rules, err := f.svc.ListRulesByCustomer(ctx, customerID)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	require.NotNil(t, rules[0].CustomerID)
	assert.Equal(t, customerID, *rules[0].CustomerID)
}

package seed

import (
	"testing"

	"github.com/glebarez/sqlite"
	pricingdomain "github.com/couriersync/billing/internal/pricing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestEnsureStarterRulesIsIdempotent(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&pricingdomain.PricingRule{}))

	inserted, err := EnsureStarterRules(conn)
	require.NoError(t, err)
	assert.Equal(t, len(starterRules), inserted)

	inserted, err = EnsureStarterRules(conn)
	require.NoError(t, err)
	assert.Zero(t, inserted)

	var count int64
	require.NoError(t, conn.Model(&pricingdomain.PricingRule{}).Count(&count).Error)
	assert.EqualValues(t, len(starterRules), count)
}

func TestEnsureStarterRulesSkipsExistingTypes(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&pricingdomain.PricingRule{}))

	inserted, err := EnsureStarterRules(conn)
	require.NoError(t, err)
	require.Equal(t, len(starterRules), inserted)

	require.NoError(t, conn.Where("rule_type = ?", pricingdomain.RuleTypeBaseRate).
		Delete(&pricingdomain.PricingRule{}).Error)

	inserted, err = EnsureStarterRules(conn)
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)
}

func TestEnsureStarterRulesRequiresDB(t *testing.T) {
	_, err := EnsureStarterRules(nil)
	require.Error(t, err)
}

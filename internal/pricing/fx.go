package pricing

import (
	"github.com/couriersync/billing/internal/pricing/service"
	"github.com/couriersync/billing/internal/tax"
	"go.uber.org/fx"
)

var Module = fx.Module("pricing.service",
	tax.Module,
	fx.Provide(service.NewCalculatorConfig),
	fx.Provide(service.NewCalculator),
	fx.Provide(service.NewService),
)

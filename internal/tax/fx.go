package tax

import (
	"github.com/couriersync/billing/internal/tax/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tax.service",
	fx.Provide(service.NewEngine),
)

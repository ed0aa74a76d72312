package invoice

import (
	"github.com/couriersync/billing/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(service.NewAssembler),
	fx.Provide(service.NewService),
)

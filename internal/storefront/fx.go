package storefront

import (
	"github.com/smallbiznis/vitrine/internal/storefront/service"
	"go.uber.org/fx"
)

var Module = fx.Module("storefront.service",
	fx.Provide(service.New),
)

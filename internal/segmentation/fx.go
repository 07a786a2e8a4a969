package segmentation

import (
	"github.com/smallbiznis/vitrine/internal/segmentation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("segmentation.service",
	fx.Provide(service.New),
)

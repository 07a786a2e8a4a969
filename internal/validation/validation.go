package validation

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/fx"
)

func New() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

var Module = fx.Module("validation",
	fx.Provide(New),
)

package recipe

import (
	"github.com/printlabs/pressconfig/internal/recipe/service"
	"go.uber.org/fx"
)

var Module = fx.Module("recipe.service",
	fx.Provide(service.New),
)

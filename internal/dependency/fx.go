package dependency

import (
	"github.com/printlabs/pressconfig/internal/dependency/service"
	"go.uber.org/fx"
)

var Module = fx.Module("dependency.service",
	fx.Provide(service.New),
)

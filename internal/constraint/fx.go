package constraint

import (
	"github.com/printlabs/pressconfig/internal/constraint/service"
	"go.uber.org/fx"
)

var Module = fx.Module("constraint.service",
	fx.Provide(service.New),
)

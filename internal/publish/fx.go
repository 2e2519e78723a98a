package publish

import (
	"github.com/printlabs/pressconfig/internal/publish/service"
	"go.uber.org/fx"
)

var Module = fx.Module("publish.service",
	fx.Provide(service.New),
)

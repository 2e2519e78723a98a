package option

import (
	"github.com/printlabs/pressconfig/internal/option/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("option",
	fx.Provide(repository.Provide),
)

package discount

import (
	"github.com/printlabs/pressconfig/internal/discount/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("discount",
	fx.Provide(repository.Provide),
)

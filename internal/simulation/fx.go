package simulation

import (
	"github.com/printlabs/pressconfig/internal/simulation/repository"
	"github.com/printlabs/pressconfig/internal/simulation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("simulation.service",
	fx.Provide(service.New),
	fx.Provide(repository.Provide),
)

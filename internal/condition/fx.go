package condition

import (
	"github.com/seatsmith/seatsmith/internal/condition/repository"
	"github.com/seatsmith/seatsmith/internal/condition/service"
	"go.uber.org/fx"
)

var Module = fx.Module("condition.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

package discount

import (
	"github.com/seatsmith/seatsmith/internal/discount/repository"
	"github.com/seatsmith/seatsmith/internal/discount/service"
	"go.uber.org/fx"
)

var Module = fx.Module("discount.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

package cart

import (
	"github.com/seatsmith/seatsmith/internal/cart/repository"
	"github.com/seatsmith/seatsmith/internal/cart/service"
	"go.uber.org/fx"
)

var Module = fx.Module("cart.service",
	fx.Provide(NewUserLock),
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

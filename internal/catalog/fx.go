package catalog

import (
	"github.com/seatsmith/seatsmith/internal/catalog/repository"
	"github.com/seatsmith/seatsmith/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

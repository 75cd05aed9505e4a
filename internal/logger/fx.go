package logger

import (
	"context"

	"github.com/seatsmith/seatsmith/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewFromConfig builds the application logger at the configured level.
func NewFromConfig(appCfg config.Config) (*zap.Logger, error) {
	return New(appCfg.Logger.Level)
}

func registerHooks(lc fx.Lifecycle, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = ctx
			_ = log.Sync()
			return nil
		},
	})
}

// Module provides the shared zap logger and flushes it on shutdown.
var Module = fx.Module("logger",
	fx.Provide(
		NewFromConfig,
	),
	fx.Invoke(registerHooks),
)

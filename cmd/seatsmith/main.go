package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/seatsmith/seatsmith/internal/clock"
	"github.com/seatsmith/seatsmith/internal/config"
	"github.com/seatsmith/seatsmith/internal/logger"
	"github.com/seatsmith/seatsmith/internal/migration"
	"github.com/seatsmith/seatsmith/internal/server"
	"github.com/seatsmith/seatsmith/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

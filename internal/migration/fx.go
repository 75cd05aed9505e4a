package migration

import (
	"github.com/bwmarrin/snowflake"
	"github.com/seatsmith/seatsmith/internal/config"
	"github.com/seatsmith/seatsmith/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, genID *snowflake.Node) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			if err := AutoMigrate(conn); err != nil {
				return err
			}
		}

		if cfg.SeedDemoCatalog {
			return seed.EnsureDemoCatalog(conn, genID)
		}
		return nil
	}),
)

package db

import (
	"fmt"
	"time"

	"github.com/seatsmith/seatsmith/internal/config"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// New opens the gorm connection described by cfg and applies pool limits.
func New(cfg config.Config) (*gorm.DB, error) {
	dialector, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConn)
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConn)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetime) * time.Second)

	return conn, nil
}

var Module = fx.Module("db",
	fx.Provide(New),
)

// Package migration creates the schema on startup so a fresh deployment is
// usable out of the box. Postgres runs the embedded SQL migrations; sqlite
// (dev, tests) falls back to gorm auto-migration.
package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	cartdomain "github.com/seatsmith/seatsmith/internal/cart/domain"
	catalogdomain "github.com/seatsmith/seatsmith/internal/catalog/domain"
	conditiondomain "github.com/seatsmith/seatsmith/internal/condition/domain"
	discountdomain "github.com/seatsmith/seatsmith/internal/discount/domain"
	"gorm.io/gorm"
)

//go:embed sql
var embeddedMigrations embed.FS

const migrationsDir = "sql"

func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}

// AutoMigrate is the sqlite path; the embedded SQL is postgres-flavored.
func AutoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&catalogdomain.Category{},
		&catalogdomain.Product{},
		&cartdomain.Cart{},
		&cartdomain.CartItem{},
		&cartdomain.DiscountItem{},
		&conditiondomain.EnablingCondition{},
		&conditiondomain.ConditionProduct{},
		&conditiondomain.ConditionCategory{},
		&discountdomain.Discount{},
		&discountdomain.DiscountEnablingProduct{},
		&discountdomain.DiscountEnablingCategory{},
		&discountdomain.DiscountClause{},
	)
}

// Package seed bootstraps a demo catalog so a fresh local deployment has
// something to sell.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/seatsmith/seatsmith/internal/catalog/domain"
	"gorm.io/gorm"
)

const (
	demoTicketCategoryCode = "tickets"
	demoSwagCategoryCode   = "swag"
)

type demoProduct struct {
	code         string
	name         string
	priceCents   int64
	limitPerUser int64
}

var demoTickets = []demoProduct{
	{code: "ticket-full", name: "Full Conference Ticket", priceCents: 49900, limitPerUser: 1},
	{code: "ticket-student", name: "Student Ticket", priceCents: 19900, limitPerUser: 1},
	{code: "ticket-day", name: "Day Pass", priceCents: 14900, limitPerUser: 3},
}

var demoSwag = []demoProduct{
	{code: "tshirt", name: "Conference T-Shirt", priceCents: 2500, limitPerUser: 5},
	{code: "hoodie", name: "Conference Hoodie", priceCents: 6500, limitPerUser: 2},
}

// EnsureDemoCatalog is idempotent: rows are looked up by code and only
// created when missing.
func EnsureDemoCatalog(db *gorm.DB, genID *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if genID == nil {
		return errors.New("seed id generator is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ticketCat, err := ensureCategory(ctx, tx, genID, demoTicketCategoryCode, "Tickets")
		if err != nil {
			return err
		}
		swagCat, err := ensureCategory(ctx, tx, genID, demoSwagCategoryCode, "Swag")
		if err != nil {
			return err
		}

		for _, p := range demoTickets {
			if err := ensureProduct(ctx, tx, genID, ticketCat.ID, p); err != nil {
				return err
			}
		}
		for _, p := range demoSwag {
			if err := ensureProduct(ctx, tx, genID, swagCat.ID, p); err != nil {
				return err
			}
		}
		return nil
	})
}

func ensureCategory(ctx context.Context, tx *gorm.DB, genID *snowflake.Node, code, name string) (*catalogdomain.Category, error) {
	var existing catalogdomain.Category
	if err := tx.WithContext(ctx).Where("code = ?", code).Limit(1).Find(&existing).Error; err != nil {
		return nil, err
	}
	if existing.ID != 0 {
		return &existing, nil
	}

	now := time.Now().UTC()
	category := catalogdomain.Category{
		ID:        genID.Generate().Int64(),
		Code:      code,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func ensureProduct(ctx context.Context, tx *gorm.DB, genID *snowflake.Node, categoryID int64, p demoProduct) error {
	var existing catalogdomain.Product
	if err := tx.WithContext(ctx).Where("code = ?", p.code).Limit(1).Find(&existing).Error; err != nil {
		return err
	}
	if existing.ID != 0 {
		return nil
	}

	now := time.Now().UTC()
	product := catalogdomain.Product{
		ID:           genID.Generate().Int64(),
		CategoryID:   categoryID,
		Code:         p.code,
		Name:         p.name,
		PriceCents:   p.priceCents,
		LimitPerUser: p.limitPerUser,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return tx.WithContext(ctx).Create(&product).Error
}

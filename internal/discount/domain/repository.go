package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, discount *Discount, productIDs, categoryIDs []int64, clauses []DiscountClause) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Rule, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]Rule, error)
}

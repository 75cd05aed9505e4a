package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, cond *EnablingCondition, productIDs, categoryIDs []int64) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Condition, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]Condition, error)

	// ForProduct returns every condition attached to the product, directly or
	// through its category.
	ForProduct(ctx context.Context, db *gorm.DB, productID, categoryID int64) ([]Condition, error)
}

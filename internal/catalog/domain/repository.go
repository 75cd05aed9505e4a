package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	CreateCategory(ctx context.Context, db *gorm.DB, category *Category) error
	FindCategoryByID(ctx context.Context, db *gorm.DB, id int64) (*Category, error)
	FindAllCategories(ctx context.Context, db *gorm.DB) ([]Category, error)

	CreateProduct(ctx context.Context, db *gorm.DB, product *Product) error
	UpdateProduct(ctx context.Context, db *gorm.DB, product *Product) error
	FindProductByID(ctx context.Context, db *gorm.DB, id int64) (*Product, error)
	FindAllProducts(ctx context.Context, db *gorm.DB) ([]Product, error)

	// ProductIDsByCategory expands category references to their member products.
	ProductIDsByCategory(ctx context.Context, db *gorm.DB, categoryIDs []int64) ([]int64, error)
	// CategoryByProduct returns the category of every product, keyed by product ID.
	CategoryByProduct(ctx context.Context, db *gorm.DB) (map[int64]int64, error)
}

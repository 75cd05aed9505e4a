package repository

import (
	"context"

	"github.com/seatsmith/seatsmith/internal/catalog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) CreateCategory(ctx context.Context, db *gorm.DB, category *domain.Category) error {
	return db.WithContext(ctx).Create(category).Error
}

func (r *repo) FindCategoryByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Category, error) {
	var c domain.Category
	err := db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&c).Error
	if err != nil {
		return nil, err
	}
	if c.ID == 0 {
		return nil, nil
	}
	return &c, nil
}

func (r *repo) FindAllCategories(ctx context.Context, db *gorm.DB) ([]domain.Category, error) {
	var items []domain.Category
	err := db.WithContext(ctx).Order("created_at ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) CreateProduct(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return db.WithContext(ctx).Create(product).Error
}

func (r *repo) UpdateProduct(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	if product == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE products
		 SET name = ?, description = ?, price_cents = ?, limit_per_user = ?, active = ?, updated_at = ?
		 WHERE id = ?`,
		product.Name,
		product.Description,
		product.PriceCents,
		product.LimitPerUser,
		product.Active,
		product.UpdatedAt,
		product.ID,
	).Error
}

func (r *repo) FindProductByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Product, error) {
	var p domain.Product
	err := db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) FindAllProducts(ctx context.Context, db *gorm.DB) ([]domain.Product, error) {
	var items []domain.Product
	err := db.WithContext(ctx).Order("created_at ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ProductIDsByCategory(ctx context.Context, db *gorm.DB, categoryIDs []int64) ([]int64, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	var ids []int64
	err := db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("category_id IN ?", categoryIDs).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repo) CategoryByProduct(ctx context.Context, db *gorm.DB) (map[int64]int64, error) {
	type row struct {
		ID         int64
		CategoryID int64
	}
	var rows []row
	err := db.WithContext(ctx).
		Model(&domain.Product{}).
		Select("id", "category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[int64]int64, len(rows))
	for _, r := range rows {
		out[r.ID] = r.CategoryID
	}
	return out, nil
}

package repository

import (
	"context"

	"github.com/seatsmith/seatsmith/internal/condition/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, cond *domain.EnablingCondition, productIDs, categoryIDs []int64) error {
	if err := db.WithContext(ctx).Create(cond).Error; err != nil {
		return err
	}
	for _, pid := range productIDs {
		link := domain.ConditionProduct{ConditionID: cond.ID, ProductID: pid}
		if err := db.WithContext(ctx).Create(&link).Error; err != nil {
			return err
		}
	}
	for _, cid := range categoryIDs {
		link := domain.ConditionCategory{ConditionID: cond.ID, CategoryID: cid}
		if err := db.WithContext(ctx).Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Condition, error) {
	var row domain.EnablingCondition
	err := db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	cond, err := r.withRefs(ctx, db, row)
	if err != nil {
		return nil, err
	}
	return &cond, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.Condition, error) {
	var rows []domain.EnablingCondition
	err := db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Condition, 0, len(rows))
	for _, row := range rows {
		cond, err := r.withRefs(ctx, db, row)
		if err != nil {
			return nil, err
		}
		out = append(out, cond)
	}
	return out, nil
}

func (r *repo) ForProduct(ctx context.Context, db *gorm.DB, productID, categoryID int64) ([]domain.Condition, error) {
	var ids []int64
	err := db.WithContext(ctx).Raw(
		`SELECT condition_id FROM condition_products WHERE product_id = ?
		 UNION
		 SELECT condition_id FROM condition_categories WHERE category_id = ?
		 ORDER BY condition_id ASC`,
		productID,
		categoryID,
	).Scan(&ids).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Condition, 0, len(ids))
	for _, id := range ids {
		cond, err := r.FindByID(ctx, db, id)
		if err != nil {
			return nil, err
		}
		if cond != nil {
			out = append(out, *cond)
		}
	}
	return out, nil
}

func (r *repo) withRefs(ctx context.Context, db *gorm.DB, row domain.EnablingCondition) (domain.Condition, error) {
	cond := domain.Condition{EnablingCondition: row}

	err := db.WithContext(ctx).
		Model(&domain.ConditionProduct{}).
		Where("condition_id = ?", row.ID).
		Order("product_id ASC").
		Pluck("product_id", &cond.ProductIDs).Error
	if err != nil {
		return cond, err
	}

	err = db.WithContext(ctx).
		Model(&domain.ConditionCategory{}).
		Where("condition_id = ?", row.ID).
		Order("category_id ASC").
		Pluck("category_id", &cond.CategoryIDs).Error
	if err != nil {
		return cond, err
	}
	return cond, nil
}

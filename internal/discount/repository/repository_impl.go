package repository

import (
	"context"

	"github.com/seatsmith/seatsmith/internal/discount/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, discount *domain.Discount, productIDs, categoryIDs []int64, clauses []domain.DiscountClause) error {
	if err := db.WithContext(ctx).Create(discount).Error; err != nil {
		return err
	}
	for _, pid := range productIDs {
		link := domain.DiscountEnablingProduct{DiscountID: discount.ID, ProductID: pid}
		if err := db.WithContext(ctx).Create(&link).Error; err != nil {
			return err
		}
	}
	for _, cid := range categoryIDs {
		link := domain.DiscountEnablingCategory{DiscountID: discount.ID, CategoryID: cid}
		if err := db.WithContext(ctx).Create(&link).Error; err != nil {
			return err
		}
	}
	for i := range clauses {
		clauses[i].DiscountID = discount.ID
		if err := db.WithContext(ctx).Create(&clauses[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Rule, error) {
	var row domain.Discount
	err := db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	rule, err := r.withRefs(ctx, db, row)
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.Rule, error) {
	var rows []domain.Discount
	err := db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Rule, 0, len(rows))
	for _, row := range rows {
		rule, err := r.withRefs(ctx, db, row)
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, nil
}

func (r *repo) withRefs(ctx context.Context, db *gorm.DB, row domain.Discount) (domain.Rule, error) {
	rule := domain.Rule{Discount: row}

	err := db.WithContext(ctx).
		Model(&domain.DiscountEnablingProduct{}).
		Where("discount_id = ?", row.ID).
		Order("product_id ASC").
		Pluck("product_id", &rule.ProductIDs).Error
	if err != nil {
		return rule, err
	}

	err = db.WithContext(ctx).
		Model(&domain.DiscountEnablingCategory{}).
		Where("discount_id = ?", row.ID).
		Order("category_id ASC").
		Pluck("category_id", &rule.CategoryIDs).Error
	if err != nil {
		return rule, err
	}

	err = db.WithContext(ctx).
		Where("discount_id = ?", row.ID).
		Order("id ASC").
		Find(&rule.Clauses).Error
	if err != nil {
		return rule, err
	}
	return rule, nil
}

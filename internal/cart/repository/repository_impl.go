package repository

import (
	"context"
	"time"

	"github.com/seatsmith/seatsmith/internal/cart/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) CreateCart(ctx context.Context, db *gorm.DB, cart *domain.Cart) error {
	return db.WithContext(ctx).Create(cart).Error
}

func (r *repo) UpdateCart(ctx context.Context, db *gorm.DB, cart *domain.Cart) error {
	if cart == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE carts SET active = ?, status = ?, updated_at = ? WHERE id = ?`,
		cart.Active,
		cart.Status,
		cart.UpdatedAt,
		cart.ID,
	).Error
}

func (r *repo) FindCartByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Cart, error) {
	var c domain.Cart
	err := db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&c).Error
	if err != nil {
		return nil, err
	}
	if c.ID == 0 {
		return nil, nil
	}
	return &c, nil
}

func (r *repo) FindActiveCart(ctx context.Context, db *gorm.DB, userID string) (*domain.Cart, error) {
	var c domain.Cart
	err := db.WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		Limit(1).
		Find(&c).Error
	if err != nil {
		return nil, err
	}
	if c.ID == 0 {
		return nil, nil
	}
	return &c, nil
}

func (r *repo) FindItems(ctx context.Context, db *gorm.DB, cartID int64) ([]domain.CartItem, error) {
	var items []domain.CartItem
	err := db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindItem(ctx context.Context, db *gorm.DB, cartID, productID int64) (*domain.CartItem, error) {
	var item domain.CartItem
	err := db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Limit(1).
		Find(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) CreateItem(ctx context.Context, db *gorm.DB, item *domain.CartItem) error {
	return db.WithContext(ctx).Create(item).Error
}

func (r *repo) UpdateItemQuantity(ctx context.Context, db *gorm.DB, itemID, quantity int64) error {
	return db.WithContext(ctx).Exec(
		`UPDATE cart_items SET quantity = ?, updated_at = ? WHERE id = ?`,
		quantity,
		time.Now().UTC(),
		itemID,
	).Error
}

func (r *repo) FindDiscountItems(ctx context.Context, db *gorm.DB, cartID int64) ([]domain.DiscountItem, error) {
	var items []domain.DiscountItem
	err := db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ReplaceDiscountItems swaps a cart's discount rows in one statement pair.
// Callers run it inside a transaction so a failed insert keeps the old rows.
func (r *repo) ReplaceDiscountItems(ctx context.Context, db *gorm.DB, cartID int64, items []domain.DiscountItem) error {
	if err := db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&domain.DiscountItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}

func (r *repo) CeilingQuantity(ctx context.Context, db *gorm.DB, productIDs []int64) (int64, error) {
	if len(productIDs) == 0 {
		return 0, nil
	}
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.CartItem{}).
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.product_id IN ?", productIDs).
		Where("carts.status <> ?", domain.StatusCancelled).
		Select("COALESCE(SUM(cart_items.quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *repo) History(ctx context.Context, db *gorm.DB, userID string) (domain.History, error) {
	var hist domain.History

	if err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&hist.Carts).Error; err != nil {
		return domain.History{}, err
	}
	if len(hist.Carts) == 0 {
		return hist, nil
	}

	cartIDs := make([]int64, 0, len(hist.Carts))
	for _, c := range hist.Carts {
		cartIDs = append(cartIDs, c.ID)
	}

	if err := db.WithContext(ctx).
		Where("cart_id IN ?", cartIDs).
		Order("created_at ASC, id ASC").
		Find(&hist.Items).Error; err != nil {
		return domain.History{}, err
	}
	if err := db.WithContext(ctx).
		Where("cart_id IN ?", cartIDs).
		Order("id ASC").
		Find(&hist.DiscountItems).Error; err != nil {
		return domain.History{}, err
	}
	return hist, nil
}

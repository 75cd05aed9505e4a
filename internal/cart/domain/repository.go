package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	CreateCart(ctx context.Context, db *gorm.DB, cart *Cart) error
	UpdateCart(ctx context.Context, db *gorm.DB, cart *Cart) error
	FindCartByID(ctx context.Context, db *gorm.DB, id int64) (*Cart, error)
	FindActiveCart(ctx context.Context, db *gorm.DB, userID string) (*Cart, error)

	FindItems(ctx context.Context, db *gorm.DB, cartID int64) ([]CartItem, error)
	FindItem(ctx context.Context, db *gorm.DB, cartID, productID int64) (*CartItem, error)
	CreateItem(ctx context.Context, db *gorm.DB, item *CartItem) error
	UpdateItemQuantity(ctx context.Context, db *gorm.DB, itemID, quantity int64) error

	FindDiscountItems(ctx context.Context, db *gorm.DB, cartID int64) ([]DiscountItem, error)
	ReplaceDiscountItems(ctx context.Context, db *gorm.DB, cartID int64, items []DiscountItem) error

	// History loads the full snapshot for one user: every cart, line item and
	// discount item, in creation order.
	History(ctx context.Context, db *gorm.DB, userID string) (History, error)

	// CeilingQuantity sums committed units of the given products across every
	// user's non-cancelled carts. Stock ceilings are shared inventory, so the
	// count is global, not per user.
	CeilingQuantity(ctx context.Context, db *gorm.DB, productIDs []int64) (int64, error)
}

package domain

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

// Cart is a user's collection of requested product quantities. At most one
// cart per user is active; the rest are immutable history.
type Cart struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:text;not null;index"`
	Active    bool      `json:"active" gorm:"not null;default:true"`
	Status    Status    `json:"status" gorm:"type:text;not null;default:pending"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

func (Cart) TableName() string { return "carts" }

type CartItem struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	CartID    int64     `json:"cart_id" gorm:"not null;index"`
	ProductID int64     `json:"product_id" gorm:"not null;index"`
	Quantity  int64     `json:"quantity" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

func (CartItem) TableName() string { return "cart_items" }

// DiscountItem is a derived row: quantity units of a product in one cart are
// discounted at a percentage under a discount rule. Never hand-edited; the
// reconciler owns the rows of the active cart, historical rows are read-only
// inputs to quota accounting.
type DiscountItem struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	CartID     int64     `json:"cart_id" gorm:"not null;index"`
	DiscountID int64     `json:"discount_id" gorm:"not null;index"`
	ProductID  int64     `json:"product_id" gorm:"not null"`
	Quantity   int64     `json:"quantity" gorm:"not null"`
	Percentage float64   `json:"percentage" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"not null"`
}

func (DiscountItem) TableName() string { return "discount_items" }

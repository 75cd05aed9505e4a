package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	// AddToCart runs the full admission flow: eligibility gate, line item
	// upsert, discount reconciliation. Denials are reported in the result,
	// not as errors.
	AddToCart(ctx context.Context, req AddRequest) (*AddResult, error)
	ActiveCart(ctx context.Context, userID string) (*CartView, error)
	SetStatus(ctx context.Context, req SetStatusRequest) (*CartView, error)
}

type AddRequest struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type AddResult struct {
	Admitted bool      `json:"admitted"`
	Reason   string    `json:"reason,omitempty"`
	Cart     *CartView `json:"cart,omitempty"`
}

type SetStatusRequest struct {
	CartID string `json:"-"`
	Status Status `json:"status"`
}

type CartView struct {
	ID            string             `json:"id"`
	UserID        string             `json:"user_id"`
	Active        bool               `json:"active"`
	Status        Status             `json:"status"`
	Items         []ItemView         `json:"items"`
	DiscountItems []DiscountItemView `json:"discount_items"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

type ItemView struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type DiscountItemView struct {
	DiscountID string  `json:"discount_id"`
	ProductID  string  `json:"product_id"`
	Quantity   int64   `json:"quantity"`
	Percentage float64 `json:"percentage"`
}

var (
	ErrInvalidUser     = errors.New("invalid_user")
	ErrInvalidProduct  = errors.New("invalid_product")
	ErrInvalidQuantity = errors.New("invalid_quantity")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
	ErrCartNotActive   = errors.New("cart_not_active")
	ErrUserBusy        = errors.New("user_busy")
)

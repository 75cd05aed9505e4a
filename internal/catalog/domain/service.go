package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error)
	ListCategories(ctx context.Context) ([]CategoryResponse, error)

	CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResponse, error)
	UpdateProduct(ctx context.Context, req UpdateProductRequest) (*ProductResponse, error)
	ListProducts(ctx context.Context) ([]ProductResponse, error)
	GetProduct(ctx context.Context, id string) (*ProductResponse, error)
}

type CreateCategoryRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type CategoryResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateProductRequest struct {
	CategoryID   string  `json:"category_id"`
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	PriceCents   int64   `json:"price_cents"`
	LimitPerUser int64   `json:"limit_per_user"`
	Active       *bool   `json:"active"`
}

type UpdateProductRequest struct {
	ID           string  `json:"-"`
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	PriceCents   *int64  `json:"price_cents"`
	LimitPerUser *int64  `json:"limit_per_user"`
	Active       *bool   `json:"active"`
}

type ProductResponse struct {
	ID           string    `json:"id"`
	CategoryID   string    `json:"category_id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	PriceCents   int64     `json:"price_cents"`
	LimitPerUser int64     `json:"limit_per_user"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

var (
	ErrInvalidCode     = errors.New("invalid_code")
	ErrDuplicateCode   = errors.New("duplicate_code")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidCategory = errors.New("invalid_category")
	ErrInvalidLimit    = errors.New("invalid_limit")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
)

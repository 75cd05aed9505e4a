package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
}

type CreateRequest struct {
	Description string     `json:"description"`
	Kind        Kind       `json:"kind"`
	Mandatory   bool       `json:"mandatory"`
	Limit       int64      `json:"limit"`
	StartAt     *time.Time `json:"start_at"`
	EndAt       *time.Time `json:"end_at"`
	ProductIDs  []string   `json:"product_ids"`
	CategoryIDs []string   `json:"category_ids"`
}

type Response struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Kind        Kind       `json:"kind"`
	Mandatory   bool       `json:"mandatory"`
	Limit       int64      `json:"limit"`
	StartAt     *time.Time `json:"start_at,omitempty"`
	EndAt       *time.Time `json:"end_at,omitempty"`
	ProductIDs  []string   `json:"product_ids"`
	CategoryIDs []string   `json:"category_ids"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

var (
	ErrInvalidKind        = errors.New("invalid_kind")
	ErrInvalidLimit       = errors.New("invalid_limit")
	ErrInvalidWindow      = errors.New("invalid_window")
	ErrInvalidDescription = errors.New("invalid_description")
	ErrInvalidReference   = errors.New("invalid_reference")
	ErrInvalidID          = errors.New("invalid_id")
	ErrNotFound           = errors.New("not_found")
)

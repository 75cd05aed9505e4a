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

	// Preview computes the discount items the reconciler would produce for a
	// cart right now, without persisting anything. Used for pricing display.
	Preview(ctx context.Context, cartID string) ([]PreviewItem, error)
}

type CreateRequest struct {
	Description string          `json:"description"`
	ProductIDs  []string        `json:"product_ids"`
	CategoryIDs []string        `json:"category_ids"`
	Clauses     []ClauseRequest `json:"clauses"`
}

type ClauseRequest struct {
	ProductID  *string `json:"product_id,omitempty"`
	CategoryID *string `json:"category_id,omitempty"`
	Percentage float64 `json:"percentage"`
	Quantity   int64   `json:"quantity"`
}

type Response struct {
	ID          string           `json:"id"`
	Description string           `json:"description"`
	ProductIDs  []string         `json:"product_ids"`
	CategoryIDs []string         `json:"category_ids"`
	Clauses     []ClauseResponse `json:"clauses"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type ClauseResponse struct {
	ID         string  `json:"id"`
	ProductID  *string `json:"product_id,omitempty"`
	CategoryID *string `json:"category_id,omitempty"`
	Percentage float64 `json:"percentage"`
	Quantity   int64   `json:"quantity"`
}

type PreviewItem struct {
	DiscountID string  `json:"discount_id"`
	ProductID  string  `json:"product_id"`
	Quantity   int64   `json:"quantity"`
	Percentage float64 `json:"percentage"`
}

var (
	ErrInvalidDescription = errors.New("invalid_description")
	ErrInvalidClause      = errors.New("invalid_clause")
	ErrInvalidPercentage  = errors.New("invalid_percentage")
	ErrInvalidQuantity    = errors.New("invalid_quantity")
	ErrInvalidReference   = errors.New("invalid_reference")
	ErrInvalidID          = errors.New("invalid_id")
	ErrNotFound           = errors.New("not_found")
)

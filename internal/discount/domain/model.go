package domain

import "time"

// Discount is a price-reduction rule. It activates for a user when the
// enabling products or categories appear in that user's cart history, and
// grants reductions through its clauses.
type Discount struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Description string    `json:"description" gorm:"type:text;not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"not null"`
}

func (Discount) TableName() string { return "discounts" }

type DiscountEnablingProduct struct {
	DiscountID int64 `gorm:"primaryKey;autoIncrement:false"`
	ProductID  int64 `gorm:"primaryKey;autoIncrement:false;index"`
}

func (DiscountEnablingProduct) TableName() string { return "discount_enabling_products" }

type DiscountEnablingCategory struct {
	DiscountID int64 `gorm:"primaryKey;autoIncrement:false"`
	CategoryID int64 `gorm:"primaryKey;autoIncrement:false;index"`
}

func (DiscountEnablingCategory) TableName() string { return "discount_enabling_categories" }

// DiscountClause grants Percentage off up to Quantity units of its target.
// The target is either one product or a whole category, never both. Quantity
// is a cap over the user's entire history, not per cart.
type DiscountClause struct {
	ID         int64   `json:"id" gorm:"primaryKey"`
	DiscountID int64   `json:"discount_id" gorm:"not null;index"`
	ProductID  *int64  `json:"product_id,omitempty"`
	CategoryID *int64  `json:"category_id,omitempty"`
	Percentage float64 `json:"percentage" gorm:"not null"`
	Quantity   int64   `json:"quantity" gorm:"not null"`
}

func (DiscountClause) TableName() string { return "discount_clauses" }

// Rule is a discount with its references loaded, the unit the evaluator and
// reconciler operate on.
type Rule struct {
	Discount
	ProductIDs  []int64
	CategoryIDs []int64
	Clauses     []DiscountClause
}

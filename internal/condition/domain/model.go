package domain

import "time"

// Kind discriminates enabling-condition variants. Evaluation dispatches on
// it, so a new variant is a new constant plus a registered evaluator.
type Kind string

const (
	KindUnconditional Kind = "unconditional"
	KindTimeOrStock   Kind = "time_or_stock"
)

// EnablingCondition gates adding referenced products to a cart. Mandatory
// conditions are strict AND gates; non-mandatory ones form an OR group.
// For the time_or_stock kind, Limit caps the aggregate committed quantity of
// the referenced products and StartAt/EndAt bound an optional sales window.
type EnablingCondition struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	Description string     `json:"description" gorm:"type:text;not null"`
	Kind        Kind       `json:"kind" gorm:"type:text;not null"`
	Mandatory   bool       `json:"mandatory" gorm:"not null;default:false"`
	Limit       int64      `json:"limit" gorm:"column:ceiling_limit;not null;default:0"`
	StartAt     *time.Time `json:"start_at,omitempty"`
	EndAt       *time.Time `json:"end_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"not null"`
}

func (EnablingCondition) TableName() string { return "enabling_conditions" }

type ConditionProduct struct {
	ConditionID int64 `gorm:"primaryKey;autoIncrement:false"`
	ProductID   int64 `gorm:"primaryKey;autoIncrement:false;index"`
}

func (ConditionProduct) TableName() string { return "condition_products" }

type ConditionCategory struct {
	ConditionID int64 `gorm:"primaryKey;autoIncrement:false"`
	CategoryID  int64 `gorm:"primaryKey;autoIncrement:false;index"`
}

func (ConditionCategory) TableName() string { return "condition_categories" }

// Condition bundles a row with its referenced product and category IDs.
type Condition struct {
	EnablingCondition
	ProductIDs  []int64
	CategoryIDs []int64
}

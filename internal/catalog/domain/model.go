package domain

import "time"

type Category struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Code      string    `json:"code" gorm:"type:text;not null;uniqueIndex"`
	Name      string    `json:"name" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

func (Category) TableName() string { return "categories" }

// Product is a purchasable item. LimitPerUser caps how many units one user
// may hold across all of their carts; zero means unlimited.
type Product struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	CategoryID   int64     `json:"category_id" gorm:"not null;index"`
	Code         string    `json:"code" gorm:"type:text;not null;uniqueIndex"`
	Name         string    `json:"name" gorm:"type:text;not null"`
	Description  *string   `json:"description,omitempty" gorm:"type:text"`
	PriceCents   int64     `json:"price_cents" gorm:"not null;default:0"`
	LimitPerUser int64     `json:"limit_per_user" gorm:"not null;default:0"`
	Active       bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"not null"`
}

func (Product) TableName() string { return "products" }

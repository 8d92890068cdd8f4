// internal/models/product.go
package models

import "time"

// Product is the in-memory shape used by the stores and the views.
type Product struct {
	ID           string    `json:"id,omitempty"`
	Name         string    `json:"name" validate:"required,max=255"`
	Brand        string    `json:"brand" validate:"required,max=100"`
	Description  string    `json:"description"`
	Price        float64   `json:"price" validate:"gte=0"`
	Images       []string  `json:"images" validate:"dive,url"`
	IsBestSeller bool      `json:"isBestSeller"`
	IsMale       bool      `json:"isMale"`
	IsFemale     bool      `json:"isFemale"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProductRow is the products table as stored by the backend.
type ProductRow struct {
	BaseModel
	Name         string   `json:"name" gorm:"size:255;not null" validate:"required"`
	Brand        string   `json:"brand" gorm:"size:100;not null;index"`
	Description  string   `json:"description" gorm:"type:text"`
	Price        float64  `json:"price" gorm:"type:decimal(10,2);not null" validate:"gte=0"`
	Images       []string `json:"images" gorm:"serializer:json"`
	IsBestSeller bool     `json:"is_best_seller" gorm:"not null"`
	IsMale       bool     `json:"is_male" gorm:"not null"`
	IsFemale     bool     `json:"is_female" gorm:"not null"`
}

func (ProductRow) TableName() string {
	return "products"
}

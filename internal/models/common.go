// internal/models/common.go
package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with the server-assigned fields
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36" validate:"required"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// Fixed virtual sections
const (
	SectionBestSellers   = "Más Vendidos"
	SectionMaleCatalog   = "Catálogo Masculino"
	SectionFemaleCatalog = "Catálogo Femenino"
)

var defaultSectionOrder = []string{
	SectionBestSellers,
	SectionMaleCatalog,
	SectionFemaleCatalog,
	"Nike",
	"Adidas",
	"Puma",
	"New Balance",
	"Jordan",
	"Converse",
}

// DefaultSectionOrder returns a fresh copy of the built-in storefront layout.
func DefaultSectionOrder() []string {
	return slices.Clone(defaultSectionOrder)
}

func IsFixedSection(title string) bool {
	switch title {
	case SectionBestSellers, SectionMaleCatalog, SectionFemaleCatalog:
		return true
	}
	return false
}

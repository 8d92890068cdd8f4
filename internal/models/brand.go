// internal/models/brand.go
package models

type BrandRow struct {
	BaseModel
	Name string `json:"name" gorm:"size:100;not null;uniqueIndex" validate:"required"`
}

func (BrandRow) TableName() string {
	return "brands"
}

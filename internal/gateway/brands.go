// internal/gateway/brands.go
package gateway

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/javajoker/kicks-catalog/internal/models"
)

type brandTable struct {
	db *gorm.DB
}

func NewBrandTable(db *gorm.DB) BrandTable {
	return &brandTable{db: db}
}

func (t *brandTable) List(ctx context.Context) ([]string, error) {
	var names []string
	err := t.db.WithContext(ctx).
		Model(&models.BrandRow{}).
		Order("name ASC").
		Pluck("name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	return names, nil
}

func (t *brandTable) Insert(ctx context.Context, name string) error {
	if err := t.db.WithContext(ctx).Create(&models.BrandRow{Name: name}).Error; err != nil {
		return fmt.Errorf("failed to insert brand %q: %w", name, err)
	}
	return nil
}

func (t *brandTable) Delete(ctx context.Context, name string) error {
	res := t.db.WithContext(ctx).Where("name = ?", name).Delete(&models.BrandRow{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete brand %q: %w", name, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("brand %q: %w", name, ErrNotFound)
	}
	return nil
}

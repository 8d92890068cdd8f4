// internal/gateway/products.go
package gateway

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/javajoker/kicks-catalog/internal/models"
)

type productTable struct {
	db *gorm.DB
}

func NewProductTable(db *gorm.DB) ProductTable {
	return &productTable{db: db}
}

func (t *productTable) List(ctx context.Context) ([]models.ProductRow, error) {
	var rows []models.ProductRow
	if err := t.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return rows, nil
}

func (t *productTable) Insert(ctx context.Context, row models.ProductRow) (models.ProductRow, error) {
	row.ID = ""
	if err := t.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.ProductRow{}, fmt.Errorf("failed to insert product: %w", err)
	}
	return row, nil
}

func (t *productTable) Update(ctx context.Context, id string, row models.ProductRow) (models.ProductRow, error) {
	db := t.db.WithContext(ctx)

	res := db.Model(&models.ProductRow{}).
		Where("id = ?", id).
		Select(models.ProductMutableColumns).
		Updates(&row)
	if res.Error != nil {
		return models.ProductRow{}, fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ProductRow{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}

	var fresh models.ProductRow
	if err := db.Where("id = ?", id).First(&fresh).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ProductRow{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return models.ProductRow{}, fmt.Errorf("failed to reload product: %w", err)
	}
	return fresh, nil
}

func (t *productTable) Delete(ctx context.Context, id string) error {
	if err := t.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ProductRow{}).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (t *productTable) Images(ctx context.Context, id string) ([]string, error) {
	var rows []models.ProductRow
	err := t.db.WithContext(ctx).
		Select("id", "images").
		Where("id = ?", id).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to look up product images: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return rows[0].Images, nil
}

func (t *productTable) ExistsWithBrand(ctx context.Context, brand string) (bool, error) {
	var ids []string
	err := t.db.WithContext(ctx).
		Model(&models.ProductRow{}).
		Where("brand = ?", brand).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return false, fmt.Errorf("failed to check products for brand: %w", err)
	}
	return len(ids) > 0, nil
}

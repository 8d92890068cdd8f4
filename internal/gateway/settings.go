// internal/gateway/settings.go
package gateway

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/kicks-catalog/internal/models"
)

type settingsTable struct {
	db *gorm.DB
}

func NewSettingsTable(db *gorm.DB) SettingsTable {
	return &settingsTable{db: db}
}

// LoadSectionOrder returns the raw section_order column of the singleton row.
func (t *settingsTable) LoadSectionOrder(ctx context.Context) ([]byte, error) {
	var settings models.Settings
	err := t.db.WithContext(ctx).First(&settings, "id = ?", models.SettingsRowID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("settings: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings.SectionOrder, nil
}

// SaveSectionOrder replaces the whole order, creating the row if needed.
func (t *settingsTable) SaveSectionOrder(ctx context.Context, order []string) error {
	raw, err := models.EncodeSectionOrder(order)
	if err != nil {
		return fmt.Errorf("failed to encode section order: %w", err)
	}

	settings := models.Settings{ID: models.SettingsRowID, SectionOrder: raw}
	err = t.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"section_order"}),
		}).
		Create(&settings).Error
	if err != nil {
		return fmt.Errorf("failed to save section order: %w", err)
	}
	return nil
}

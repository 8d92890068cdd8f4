// internal/models/settings.go
package models

import "gorm.io/datatypes"

// SettingsRowID identifies the singleton settings record.
const SettingsRowID = 1

type Settings struct {
	ID           uint           `json:"id" gorm:"primaryKey;autoIncrement:false"`
	SectionOrder datatypes.JSON `json:"section_order"`
}

func (Settings) TableName() string {
	return "settings"
}

package store

import (
	"errors"

	"github.com/inkhaus/studio-app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetSetting returns the setting row for key, or nil (and no error) when the
// key has never been configured. Absence is an expected outcome here; every
// other database failure propagates.
func (s *Store) GetSetting(key string) (*models.SiteSetting, error) {
	var setting models.SiteSetting
	err := s.db.Where("`key` = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// SetSetting upserts the value keyed on key and returns the stored row.
func (s *Store) SetSetting(key, value string) (*models.SiteSetting, error) {
	setting := models.SiteSetting{Key: key, Value: value}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
	if err != nil {
		return nil, err
	}

	// Re-read so the caller sees the canonical row either way.
	var stored models.SiteSetting
	if err := s.db.Where("`key` = ?", key).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

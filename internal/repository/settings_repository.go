package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/hospital-task-points/internal/constants"
	"github.com/yukikurage/hospital-task-points/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSettingsRepository is a GORM implementation of SettingsRepository
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Get returns the settings row, creating it with defaults if absent.
// Concurrent first reads race on the insert; the loser's insert is ignored.
func (r *GormSettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	db := r.db.WithContext(ctx)

	var settings models.Settings
	err := db.Where("id = ?", constants.SettingsKey).First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	defaults := models.DefaultSettings()
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&defaults).Error; err != nil {
		return nil, err
	}

	if err := db.Where("id = ?", constants.SettingsKey).First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateVersioned applies updates if settings are still at expectedVersion
func (r *GormSettingsRepository) UpdateVersioned(ctx context.Context, expectedVersion int64, updates map[string]any) error {
	return updateVersioned(ctx, r.db, &models.Settings{}, constants.SettingsKey, expectedVersion, updates)
}

package repository

import (
	"context"

	"dashstack/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsRepository defines the interface for user settings storage.
type SettingsRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.UserSettings, error)
	Upsert(ctx context.Context, settings *models.UserSettings) error
}

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetByUserID(ctx context.Context, userID string) (*models.UserSettings, error) {
	var settings models.UserSettings
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &settings, nil
}

// Upsert creates the row on first write and updates preference columns on
// subsequent writes, keyed by the unique user_id constraint.
func (r *settingsRepository) Upsert(ctx context.Context, settings *models.UserSettings) error {
	// A loaded row already carries its primary key; update it in place.
	if settings.ID != 0 {
		if err := r.db.WithContext(ctx).Save(settings).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"locale", "theme", "notifications_enabled", "email_notifications_enabled", "updated_at",
		}),
	}).Create(settings).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

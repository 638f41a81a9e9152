package repository

import (
	"context"

	"dashstack/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CredentialRepository defines the interface for password hash storage.
type CredentialRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Credential, error)
	Upsert(ctx context.Context, credential *models.Credential) error
	Delete(ctx context.Context, userID string) error
}

type credentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository creates a new credential repository
func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) GetByUserID(ctx context.Context, userID string) (*models.Credential, error) {
	var credential models.Credential
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&credential).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &credential, nil
}

// Upsert stores the hash for the user, overwriting any previous one.
// No hash history is retained.
func (r *credentialRepository) Upsert(ctx context.Context, credential *models.Credential) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"password_hash", "updated_at"}),
	}).Create(credential).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *credentialRepository) Delete(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Credential{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/blocksmith-ai/backend/internal/apperr"
	"github.com/blocksmith-ai/backend/internal/models"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{
		db: db,
	}
}

func (r *ProfileRepository) GetByID(userID string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.First(&profile, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &profile, err
}

// GetOrCreate provisions a profile on first authenticated request. The
// identity provider owns the account; we only keep the credit state.
func (r *ProfileRepository) GetOrCreate(userID, email string) (*models.Profile, error) {
	profile := models.Profile{ID: userID, Email: email}
	err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&profile).Error
	if err != nil {
		return nil, err
	}
	return r.GetByID(userID)
}

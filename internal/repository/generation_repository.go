package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/blocksmith-ai/backend/internal/apperr"
	"github.com/blocksmith-ai/backend/internal/models"
)

type GenerationRepository struct {
	db *gorm.DB
}

func NewGenerationRepository(db *gorm.DB) *GenerationRepository {
	return &GenerationRepository{
		db: db,
	}
}

func (r *GenerationRepository) Create(generation *models.Generation) error {
	return r.db.Create(generation).Error
}

func (r *GenerationRepository) GetByID(id string) (*models.Generation, error) {
	var generation models.Generation
	err := r.db.First(&generation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &generation, err
}

// GetByIDForUser returns ErrNotFound for both missing and foreign records so
// ownership is never leaked.
func (r *GenerationRepository) GetByIDForUser(id, userID string) (*models.Generation, error) {
	var generation models.Generation
	err := r.db.First(&generation, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &generation, err
}

func (r *GenerationRepository) GetByUser(userID string, limit, offset int) ([]models.Generation, error) {
	var generations []models.Generation
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&generations).Error
	return generations, err
}

// Update applies field updates to a single generation record.
func (r *GenerationRepository) Update(id string, updates map[string]interface{}) error {
	return r.db.Model(&models.Generation{}).Where("id = ?", id).Updates(updates).Error
}

// UpdateIfNotTerminal applies updates only while the job is still in a
// non-terminal state, making terminal status writes win-once.
func (r *GenerationRepository) UpdateIfNotTerminal(id string, updates map[string]interface{}) (bool, error) {
	res := r.db.Model(&models.Generation{}).
		Where("id = ? AND status NOT IN ?", id, []models.GenerationStatus{models.StatusCompleted, models.StatusFailed}).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}

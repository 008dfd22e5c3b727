package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/blocksmith-ai/backend/internal/apperr"
	"github.com/blocksmith-ai/backend/internal/models"
)

type CreditPackageRepository struct {
	db *gorm.DB
}

func NewCreditPackageRepository(db *gorm.DB) *CreditPackageRepository {
	return &CreditPackageRepository{
		db: db,
	}
}

func (r *CreditPackageRepository) GetActiveByID(id uint) (*models.CreditPackage, error) {
	var creditPackage models.CreditPackage
	err := r.db.Where("is_active = ?", true).First(&creditPackage, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &creditPackage, err
}

func (r *CreditPackageRepository) GetActive() ([]models.CreditPackage, error) {
	var packages []models.CreditPackage
	err := r.db.Where("is_active = ?", true).
		Order("sort_order ASC").
		Find(&packages).Error
	return packages, err
}

func (r *CreditPackageRepository) GetNameByID(id uint) string {
	var creditPackage models.CreditPackage
	if err := r.db.First(&creditPackage, id).Error; err != nil {
		return "Credit Package"
	}
	return creditPackage.Name
}

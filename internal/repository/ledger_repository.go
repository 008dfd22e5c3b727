package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/blocksmith-ai/backend/internal/apperr"
	"github.com/blocksmith-ai/backend/internal/models"
)

// LedgerRepository persists balance mutations. ApplyEntry is the only place
// that writes Profile.Credits; the balance update and the transaction append
// commit together or not at all.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{
		db: db,
	}
}

func (r *LedgerRepository) GetProfile(userID string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.First(&profile, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &profile, err
}

func (r *LedgerRepository) ApplyEntry(userID string, newCredits int, txn *models.CreditTransaction) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Profile{}).Where("id = ?", userID).Update("credits", newCredits)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.ErrNotFound
		}
		return tx.Create(txn).Error
	})
}

func (r *LedgerRepository) AddTotalSpent(userID string, amount float64) error {
	return r.db.Model(&models.Profile{}).
		Where("id = ?", userID).
		Update("total_spent", gorm.Expr("total_spent + ?", amount)).Error
}

func (r *LedgerRepository) HasPaymentReference(ref string) (bool, error) {
	var count int64
	err := r.db.Model(&models.CreditTransaction{}).
		Where("stripe_payment_id = ?", ref).
		Count(&count).Error
	return count > 0, err
}

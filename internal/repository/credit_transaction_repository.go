package repository

import (
	"github.com/blocksmith-ai/backend/internal/models"
	"gorm.io/gorm"
)

type CreditTransactionRepository struct {
	db *gorm.DB
}

func NewCreditTransactionRepository(db *gorm.DB) *CreditTransactionRepository {
	return &CreditTransactionRepository{
		db: db,
	}
}

func (r *CreditTransactionRepository) GetByUser(userID string, limit, offset int) ([]models.CreditTransaction, error) {
	var transactions []models.CreditTransaction
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&transactions).Error
	return transactions, err
}

func (r *CreditTransactionRepository) GetPurchasesByUser(userID string, limit, offset int) ([]models.CreditTransaction, error) {
	var transactions []models.CreditTransaction
	err := r.db.Where("user_id = ? AND type = ?", userID, models.TransactionPurchase).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&transactions).Error
	return transactions, err
}

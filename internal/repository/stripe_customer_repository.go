package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/blocksmith-ai/backend/internal/models"
)

type StripeCustomerRepository struct {
	db *gorm.DB
}

func NewStripeCustomerRepository(db *gorm.DB) *StripeCustomerRepository {
	return &StripeCustomerRepository{
		db: db,
	}
}

// GetCustomerID returns the stored Stripe customer id, or "" if the user has
// never checked out before.
func (r *StripeCustomerRepository) GetCustomerID(userID string) (string, error) {
	var customer models.StripeCustomer
	err := r.db.Where("user_id = ?", userID).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return customer.StripeCustomerID, nil
}

func (r *StripeCustomerRepository) Save(userID, stripeCustomerID string) error {
	return r.db.Create(&models.StripeCustomer{
		UserID:           userID,
		StripeCustomerID: stripeCustomerID,
	}).Error
}

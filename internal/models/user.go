package models

import (
	"time"
)

// Profile holds the per-user credit state. The ID is the subject claim of the
// identity provider's token; profiles are provisioned on first authenticated
// request. Credits are only ever mutated through the ledger service.
type Profile struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	Email      string    `json:"email" gorm:"index"`
	Credits    int       `json:"credits" gorm:"not null;default:0"`
	TotalSpent float64   `json:"total_spent" gorm:"not null;default:0"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// StripeCustomer maps a profile to its Stripe customer so checkout sessions
// reuse the same customer across purchases.
type StripeCustomer struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	UserID           string    `json:"user_id" gorm:"uniqueIndex;not null"`
	StripeCustomerID string    `json:"stripe_customer_id" gorm:"not null"`
	CreatedAt        time.Time `json:"created_at"`
}

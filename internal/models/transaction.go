package models

import "time"

type TransactionType string

const (
	TransactionPurchase TransactionType = "purchase"
	TransactionUsage    TransactionType = "usage"
	TransactionRefund   TransactionType = "refund"
)

// CreditTransaction is an append-only ledger entry. The sum of a user's
// transaction amounts equals that user's profile balance; the profile field
// is a materialized cache of this log.
type CreditTransaction struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	UserID          string          `json:"user_id" gorm:"index;not null"`
	Amount          int             `json:"amount" gorm:"not null"`
	Type            TransactionType `json:"type" gorm:"not null;index"`
	Description     string          `json:"description"`
	GenerationID    string          `json:"generation_id,omitempty" gorm:"index"`
	StripePaymentID string          `json:"stripe_payment_id,omitempty" gorm:"index"`
	CreatedAt       time.Time       `json:"created_at"`
}

package models

import "time"

type CreditPackage struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Description  string    `json:"description"`
	Credits      int       `json:"credits" gorm:"not null"`
	BonusCredits int       `json:"bonus_credits" gorm:"not null;default:0"`
	PriceCents   int64     `json:"price_cents" gorm:"not null"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	SortOrder    int       `json:"sort_order" gorm:"default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

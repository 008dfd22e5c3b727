package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/blocksmith-ai/backend/internal/models"
)

// New opens the Postgres connection. The handle is passed explicitly to
// every repository; there is no package-level connection.
func New(databaseURL string) (*gorm.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// RunMigrations creates the schema and seeds the credit package catalog.

func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Profile{},
		&models.CreditTransaction{},
		&models.Generation{},
		&models.CreditPackage{},
		&models.StripeCustomer{},
	)
	if err != nil {
		return err
	}

	return seedCreditPackages(db)
}

func seedCreditPackages(db *gorm.DB) error {
	packages := []models.CreditPackage{
		{
			Name:         "Starter",
			Description:  "100 credits to try things out",
			Credits:      100,
			BonusCredits: 0,
			PriceCents:   499,
			IsActive:     true,
			SortOrder:    1,
		},
		{
			Name:         "Builder",
			Description:  "300 credits plus a 30 credit bonus",
			Credits:      300,
			BonusCredits: 30,
			PriceCents:   1299,
			IsActive:     true,
			SortOrder:    2,
		},
		{
			Name:         "Creator",
			Description:  "750 credits plus a 125 credit bonus",
			Credits:      750,
			BonusCredits: 125,
			PriceCents:   2999,
			IsActive:     true,
			SortOrder:    3,
		},
		{
			Name:         "Studio",
			Description:  "2000 credits plus a 500 credit bonus",
			Credits:      2000,
			BonusCredits: 500,
			PriceCents:   6999,
			IsActive:     true,
			SortOrder:    4,
		},
	}

	for _, pkg := range packages {
		var count int64
		db.Model(&models.CreditPackage{}).Where("name = ?", pkg.Name).Count(&count)
		if count == 0 {
			if err := db.Create(&pkg).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

package seeders

import (
	"log"

	"toto_api_go/config"
	"toto_api_go/models"
)

func SeedTotoSettings() {
	log.Println("Seeding toto settings...")

	var count int64
	config.DB.Model(&models.TotoSettings{}).Count(&count)

	if count > 0 {
		log.Println("Toto settings already exist, skipping...")
		return
	}

	settings := models.TotoSettings{
		BaseUnitCost:     1.0,
		CommissionRate:   0.15,
		FirstPrizeShare:  0.70,
		SecondPrizeShare: 0.20,
		ThirdPrizeShare:  0.10,
		PointsPerMatch:   10,
		ReferralRate:     0.05,
		MinDepositAmount: 5.0,
		MinWithdrawal:    10.0,
		MaxWithdrawal:    10000.0,
		IsActive:         true,
	}

	if err := config.DB.Create(&settings).Error; err != nil {
		log.Printf("Error creating toto settings: %v", err)
		return
	}

	log.Println("Toto settings seeded successfully!")
	log.Printf("Base unit cost: %.2f USD", settings.BaseUnitCost)
	log.Printf("Commission rate: %.0f%%", settings.CommissionRate*100)
	log.Printf("Prize split: %.0f%% / %.0f%% / %.0f%%",
		settings.FirstPrizeShare*100, settings.SecondPrizeShare*100, settings.ThirdPrizeShare*100)
}

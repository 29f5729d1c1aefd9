package seeders

import (
	"log"

	"toto_api_go/config"
	"toto_api_go/models"

	"golang.org/x/crypto/bcrypt"
)

// SeedUsers creates default users for testing
func SeedUsers() {
	log.Println("Seeding users...")

	// Check if users already exist
	var count int64
	config.DB.Model(&models.User{}).Count(&count)

	if count > 0 {
		log.Println("Users already exist, skipping...")
		return
	}

	// Create admin user
	adminPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := models.User{
		Username:     "admin",
		Email:        "admin@toto.com",
		Password:     string(adminPassword),
		Role:         "admin",
		Status:       "active",
		ReferralCode: "ADMIN0",
	}

	if err := config.DB.Create(&admin).Error; err != nil {
		log.Printf("Error creating admin user: %v", err)
		return
	}

	// Create test user
	userPassword, _ := bcrypt.GenerateFromPassword([]byte("user123"), bcrypt.DefaultCost)
	user := models.User{
		Username:     "testuser",
		Email:        "user@toto.com",
		Password:     string(userPassword),
		Role:         "user",
		Status:       "active",
		Balance:      100.0,
		ReferralCode: "TEST01",
	}

	if err := config.DB.Create(&user).Error; err != nil {
		log.Printf("Error creating test user: %v", err)
		return
	}

	log.Println("Users seeded successfully!")
	log.Printf("Admin user created: %s (admin@toto.com)", admin.Username)
	log.Printf("Test user created: %s (user@toto.com)", user.Username)
	log.Println("Default passwords: admin123 / user123")
}

// Package main seeds the compliance admin account and the default
// detection rule set.
package main

import (
	"log"
	"os"

	"localpay/internal/config"
	"localpay/internal/models"
	"localpay/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	adminPhone := os.Getenv("ADMIN_PHONE")

	if adminEmail == "" || adminPassword == "" || adminPhone == "" {
		log.Fatal("ADMIN_EMAIL, ADMIN_PASSWORD, and ADMIN_PHONE must be set in environment")
	}

	repositories.InitDB()
	defer func() {
		if repositories.DB != nil {
			sqlDB, err := repositories.DB.DB()
			if err == nil {
				sqlDB.Close()
			}
		}
		if repositories.CacheService != nil {
			repositories.CacheService.Close()
		}
	}()

	seedAdmin(adminEmail, adminPassword, adminPhone)
	seedDefaultRules()
}

func seedAdmin(email, password, phone string) {
	var existing models.User
	if err := repositories.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Println("Admin user already exists")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin := models.User{
		Name:      "Compliance Admin",
		Email:     email,
		Password:  string(hashed),
		Phone:     phone,
		Role:      "admin",
		Status:    "active",
		KYCStatus: models.KYCStatusVerified,
	}
	if err := repositories.DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin user:", err)
	}
	log.Printf("Admin user created: %s (id=%d)", admin.Email, admin.ID)
}

// seedDefaultRules installs a starter rule set. Existing rules with the
// same name are left untouched.
func seedDefaultRules() {
	defaults := []models.DetectionRule{
		{
			Name:        "large-amount",
			Description: "Flags transactions well above the typical payment size",
			RuleType:    models.RuleTypeAmountAnomaly,
			Conditions:  models.JSON{"amount_threshold": 5_000_000.0},
			Severity:    models.SeverityHigh,
			Enabled:     true,
		},
		{
			Name:        "rapid-fire",
			Description: "Flags users exceeding the hourly transaction limit",
			RuleType:    models.RuleTypeVelocity,
			Conditions:  models.JSON{"velocity_limit": 10, "velocity_period_minutes": 60},
			Severity:    models.SeverityMedium,
			Enabled:     true,
		},
		{
			Name:        "night-activity",
			Description: "Flags transactions made during unusual hours",
			RuleType:    models.RuleTypeTimePattern,
			Conditions:  models.JSON{"unusual_hours": true},
			Severity:    models.SeverityLow,
			Enabled:     true,
		},
	}

	for _, rule := range defaults {
		var existing models.DetectionRule
		if err := repositories.DB.Where("name = ?", rule.Name).First(&existing).Error; err == nil {
			continue
		}
		if err := repositories.DB.Create(&rule).Error; err != nil {
			log.Fatalf("Failed to seed rule %s: %v", rule.Name, err)
		}
		log.Printf("Seeded detection rule: %s", rule.Name)
	}
}

package config

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/Psychotichub/report/models"
)

// SeedManager creates the bootstrap manager account from MANAGER_USERNAME /
// MANAGER_PASSWORD. Managers cannot be registered through the API, so a
// fresh deployment needs exactly one seeded here.
func SeedManager() {
	username := os.Getenv("MANAGER_USERNAME")
	password := os.Getenv("MANAGER_PASSWORD")
	if username == "" || password == "" {
		return
	}

	var cnt int64
	DB.Model(&models.User{}).Where("username = ? AND role = ?", username, models.RoleManager).Count(&cnt)
	if cnt > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("warn: could not hash manager password: %v", err)
		return
	}
	manager := models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleManager,
	}
	if err := DB.Create(&manager).Error; err != nil {
		log.Printf("warn: could not seed manager account: %v", err)
		return
	}
	log.Printf("seeded manager account %q", username)
}

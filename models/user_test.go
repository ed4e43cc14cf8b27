package models

import (
	"errors"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func migratedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "main.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.AutoMigrate(&User{}); err != nil {
		t.Fatalf("migrate users: %v", err)
	}
	return db
}

func TestUserUniqueIndexes(t *testing.T) {
	db := migratedDB(t)

	// Staff usernames are unique across the whole table.
	if err := db.Create(&User{Username: "boss", PasswordHash: "x", Role: RoleManager}).Error; err != nil {
		t.Fatalf("manager: %v", err)
	}
	err := db.Create(&User{Username: "boss", PasswordHash: "x", Role: RoleAdmin, Site: "Site A", Company: "ACME"}).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("second staff boss: %v, want duplicated key", err)
	}

	// Site usernames are unique per tenant only.
	if err := db.Create(&User{Username: "worker", PasswordHash: "x", Role: RoleUser, Site: "Site A", Company: "ACME"}).Error; err != nil {
		t.Fatalf("worker in Site A: %v", err)
	}
	if err := db.Create(&User{Username: "worker", PasswordHash: "x", Role: RoleUser, Site: "Site B", Company: "ACME"}).Error; err != nil {
		t.Fatalf("worker in Site B: %v", err)
	}
	err = db.Create(&User{Username: "worker", PasswordHash: "x", Role: RoleUser, Site: "Site A", Company: "ACME"}).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("second worker in Site A: %v, want duplicated key", err)
	}

	// The two populations never collide with each other.
	if err := db.Create(&User{Username: "boss", PasswordHash: "x", Role: RoleUser, Site: "Site A", Company: "ACME"}).Error; err != nil {
		t.Fatalf("site user named boss: %v", err)
	}
}

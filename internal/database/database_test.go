package database

import (
	"errors"
	"path/filepath"
	"testing"

	"loantrack/internal/config"
	"loantrack/internal/models"

	"gorm.io/gorm"
)

func TestInitAndMigrate(t *testing.T) {
	db, err := Init(config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "app.db")})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func TestUniqueViolationIsDuplicatedKey(t *testing.T) {
	// handlers map gorm.ErrDuplicatedKey to a conflict response, so the
	// driver must translate unique-index violations into it
	db, err := Init(config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "app.db")})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	user := models.User{Name: "A", Email: "a@example.com", PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	dup := models.User{Name: "B", Email: "a@example.com", PasswordHash: "y"}
	err = db.Create(&dup).Error
	if err == nil {
		t.Fatal("duplicate email should fail")
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("err = %v, want gorm.ErrDuplicatedKey", err)
	}
}

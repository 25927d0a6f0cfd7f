package db

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/diewo77/go-curtains/gate"
	"github.com/diewo77/go-curtains/internal/models"
)

// Migrate runs AutoMigrate for all models.
// Call this at application startup or as part of a migration step.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Staff
		&models.User{},
		// Sales
		&models.Referrer{},
		&models.Customer{},
		&models.Quotation{},
		&models.QuotationItem{},
		// Field work
		&models.InstallationJob{},
		// Accounting
		&models.AccountingDocument{},
	)
}

// SeedAdmin creates the first administrator when no admin account exists.
// It reports whether an account was created. Empty credentials are a no-op.
func SeedAdmin(db *gorm.DB, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return false, nil
	}
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", gate.RoleAdmin).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		// Promote the existing account rather than failing on the unique email.
		return true, db.Model(&existing).Updates(map[string]any{"role": gate.RoleAdmin, "active": true}).Error
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return false, fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	admin := models.User{Email: email, Name: "Administrator", Password: string(hash), Role: gate.RoleAdmin, Active: true}
	if err := db.Create(&admin).Error; err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	return true, nil
}

package db

import (
	"github.com/diewo77/listings-api/internal/models"
	"gorm.io/gorm"
)

// Migrate creates the users, listings and saved tables when they are missing.
// There is no versioned migration history; AutoMigrate only adds.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.Saved{},
	)
}

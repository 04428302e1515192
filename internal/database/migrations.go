package database

import (
	"gorm.io/gorm"

	"github.com/lironatar/TasksList/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
// Parents come before children so foreign keys resolve on every dialect.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.VerificationCode{},
		&models.TaskList{},
		&models.Task{},
		&models.CacheEntry{},
	)
}

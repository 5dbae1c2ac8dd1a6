package database

import (
	"github.com/s/writersDesk/internal/models"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Module{},
		&models.Article{},
		&models.WritingRule{},
		&models.UserLog{},
	)
}

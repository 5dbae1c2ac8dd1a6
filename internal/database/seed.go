package database

import (
	"github.com/s/writersDesk/internal/models"
	"gorm.io/gorm"
)

func Seed(db *gorm.DB) error {
	db.FirstOrCreate(&models.Role{}, models.Role{ID: models.RoleWriter, Name: "Writer"})
	db.FirstOrCreate(&models.Role{}, models.Role{ID: models.RoleLead, Name: "Lead Writer"})
	db.FirstOrCreate(&models.Role{}, models.Role{ID: models.RoleAdmin, Name: "Admin"})
	return nil
}

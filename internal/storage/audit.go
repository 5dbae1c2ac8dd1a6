package storage

import (
	"encoding/json"

	"github.com/s/writersDesk/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LogAction пишет запись в журнал действий. Details сериализуются в JSON.
func LogAction(db *gorm.DB, userID uint, action string, details interface{}) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return err
	}

	entry := models.UserLog{
		UserID:  userID,
		Action:  action,
		Details: datatypes.JSON(payload),
	}
	return db.Create(&entry).Error
}

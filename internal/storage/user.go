package storage

import (
	"errors"

	"github.com/s/writersDesk/internal/models"
	"gorm.io/gorm"
)

// SaveUser finds a user by Google ID; if found, it updates, otherwise, it creates.
func SaveUser(db *gorm.DB, userInfo models.User) (uint, error) {
	var existingUser models.User

	result := db.Where("google_id = ?", userInfo.GoogleID).First(&existingUser)

	if result.Error == nil {
		// Пользователь уже есть - обновляем профиль (имя, аватар)
		updates := map[string]interface{}{
			"email":   userInfo.Email,
			"name":    userInfo.Name,
			"picture": userInfo.Picture,
			// RoleID не трогаем: роль назначает админ
		}

		db.Model(&existingUser).Updates(updates)
		return existingUser.ID, nil

	} else if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		// Новый пользователь: по умолчанию обычный автор
		userInfo.RoleID = models.RoleWriter

		if err := db.Create(&userInfo).Error; err != nil {
			return 0, err
		}
		return userInfo.ID, nil

	} else {
		return 0, result.Error
	}
}

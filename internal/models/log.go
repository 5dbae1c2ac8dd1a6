package models

import (
	"time"

	"gorm.io/datatypes"
)

// UserLog хранит историю действий пользователя
type UserLog struct {
	ID        uint           `gorm:"primarykey"`
	UserID    uint           `gorm:"index"`
	Action    string         `json:"action"`  // "login", "article_save", "rule_change"
	Details   datatypes.JSON `json:"details"` // Например: {"article_id": 5, "score": 80}
	CreatedAt time.Time      `json:"created_at"`

	User User `gorm:"foreignKey:UserID"`
}

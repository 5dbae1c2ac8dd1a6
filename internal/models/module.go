package models

import (
	"time"
)

// Module (Модуль) - именованная коллекция статей одного ведущего автора
type Module struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title        string `json:"title"`
	Description  string `json:"description"`
	LeadWriterID uint   `json:"lead_writer_id"`

	LeadWriter User      `json:"lead_writer" gorm:"foreignKey:LeadWriterID;constraint:OnDelete:CASCADE;"`
	Articles   []Article `json:"articles" gorm:"constraint:OnDelete:CASCADE;"`
}

package models

import (
	"time"
)

// WritingRule (Правило) - критерий, по которому AI оценивает статьи.
// Правила не удаляются физически: деактивация через IsActive.
type WritingRule struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	LeadWriterID uint   `json:"lead_writer_id"`
	RuleText     string `gorm:"type:text" json:"rule_text"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`

	LeadWriter User `json:"lead_writer" gorm:"foreignKey:LeadWriterID;constraint:OnDelete:CASCADE;"`
}

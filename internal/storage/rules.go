package storage

import (
	"github.com/s/writersDesk/internal/models"
	"gorm.io/gorm"
)

// ActiveRules возвращает тексты активных правил в порядке создания.
// Только они попадают в промпт оценки.
func ActiveRules(db *gorm.DB) ([]string, error) {
	var rules []models.WritingRule
	err := db.Where("is_active = ?", true).Order("created_at asc").Find(&rules).Error
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(rules))
	for _, r := range rules {
		texts = append(texts, r.RuleText)
	}
	return texts, nil
}

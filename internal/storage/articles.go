package storage

import (
	"errors"

	"github.com/s/writersDesk/internal/models"
	"gorm.io/gorm"
)

// BestArticle возвращает статью модуля с максимальным score.
// При равных score побеждает более ранняя (created_at asc).
// Статьи без оценки не участвуют; если таких нет вообще - (nil, nil).
func BestArticle(db *gorm.DB, moduleID uint) (*models.Article, error) {
	var best models.Article
	err := db.Where("module_id = ? AND score IS NOT NULL", moduleID).
		Order("score desc, created_at asc").
		First(&best).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &best, nil
}

// CountOtherArticles считает статьи модуля, кроме указанной
func CountOtherArticles(db *gorm.DB, moduleID, articleID uint) (int64, error) {
	var count int64
	err := db.Model(&models.Article{}).
		Where("module_id = ? AND id <> ?", moduleID, articleID).
		Count(&count).Error
	return count, err
}

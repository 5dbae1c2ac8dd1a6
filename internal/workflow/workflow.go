// Package workflow прогоняет статью через оценку и синхронизацию при каждом
// сохранении. Сбой AI не валит сохранение: статья уходит в БД с пустыми
// производными полями, а предупреждение возвращается наверх.
package workflow

import (
	"fmt"
	"log"

	"github.com/s/writersDesk/internal/ai"
	"github.com/s/writersDesk/internal/models"
	"github.com/s/writersDesk/internal/storage"
	"gorm.io/gorm"
)

// Evaluator - то, что умеет внешний оценщик. *ai.Client реализует интерфейс,
// тесты подставляют детерминированный фейк.
type Evaluator interface {
	ScoreArticle(content string, rules []string) ai.ScoreResult
	SyncArticle(reference, candidate string) ai.SyncResult
}

// Canned-тексты для веток без вызова Sync Client
const (
	SuggestionNoBaseline = "This is the only article in its module so far, there is nothing to compare the style against yet."
	SuggestionInSync     = "This article sets the style benchmark for its module. No sync needed."
)

// Outcome сообщает хендлеру, что сохранение прошло в деградированном режиме
type Outcome struct {
	Degraded bool
	Warnings []string
}

type Service struct {
	DB        *gorm.DB
	Evaluator Evaluator
}

func New(db *gorm.DB, evaluator Evaluator) *Service {
	return &Service{DB: db, Evaluator: evaluator}
}

// SaveArticle выполняет полный цикл сохранения:
//  1. оценка по активным правилам -> score/feedback;
//  2. назначение автора (один раз, дальше не меняется);
//  3. запись статьи и поиск лучшей статьи модуля (максимум score по модулю,
//     включая только что оцененную; при равенстве побеждает более ранняя);
//  4. ветка sync: единственная статья / сама лучшая / вызов Sync Client;
//  5. все записи в одной транзакции + строка в журнале действий.
func (s *Service) SaveArticle(actor models.User, article *models.Article) (*Outcome, error) {
	rules, err := storage.ActiveRules(s.DB)
	if err != nil {
		return nil, fmt.Errorf("loading active rules: %w", err)
	}

	outcome := &Outcome{}

	scored := s.Evaluator.ScoreArticle(article.Content, rules)
	if scored.OK() {
		article.Score = intPtr(scored.Score)
		article.Feedback = strPtr(scored.Feedback)
	} else {
		// Оценка недоступна - сохраняем без нее, но не молча
		article.Score = nil
		article.Feedback = nil
		outcome.Degraded = true
		outcome.Warnings = append(outcome.Warnings, "scoring unavailable: "+scored.Failure.Error())
		log.Printf("⚠️ Оценка статьи %q недоступна: %v", article.Title, scored.Failure)
	}

	if article.WriterID == 0 {
		article.WriterID = actor.ID
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(article).Error; err != nil {
			return fmt.Errorf("saving article: %w", err)
		}

		others, err := storage.CountOtherArticles(tx, article.ModuleID, article.ID)
		if err != nil {
			return fmt.Errorf("counting module articles: %w", err)
		}

		best, err := storage.BestArticle(tx, article.ModuleID)
		if err != nil {
			return fmt.Errorf("looking up best article: %w", err)
		}

		var syncLevel *int
		var syncSuggestion *string

		switch {
		case others == 0 || best == nil:
			// Сравнивать не с чем: единственная статья модуля,
			// либо ни одна статья модуля еще не получила оценку
			syncLevel = intPtrCopy(article.Score)
			syncSuggestion = strPtr(SuggestionNoBaseline)

		case best.ID == article.ID || (article.Score != nil && *article.Score >= *best.Score):
			// Кандидатка и есть лучшая (или делит максимум) - Sync Client не нужен
			syncLevel = intPtrCopy(article.Score)
			syncSuggestion = strPtr(SuggestionInSync)

		default:
			synced := s.Evaluator.SyncArticle(best.Content, article.Content)
			if synced.OK() {
				syncLevel = intPtr(synced.SyncLevel)
				syncSuggestion = strPtr(synced.Suggestion)
			} else {
				outcome.Degraded = true
				outcome.Warnings = append(outcome.Warnings, "sync unavailable: "+synced.Failure.Error())
				log.Printf("⚠️ Синхронизация статьи %q недоступна: %v", article.Title, synced.Failure)
			}
		}

		article.SyncLevel = syncLevel
		article.SyncSuggestion = syncSuggestion

		err = tx.Model(article).Select("sync_level", "sync_suggestion").
			Updates(models.Article{SyncLevel: syncLevel, SyncSuggestion: syncSuggestion}).Error
		if err != nil {
			return fmt.Errorf("saving sync fields: %w", err)
		}

		details := map[string]interface{}{
			"article_id": article.ID,
			"module_id":  article.ModuleID,
			"score":      article.Score,
			"sync_level": article.SyncLevel,
			"degraded":   outcome.Degraded,
		}
		if err := storage.LogAction(tx, actor.ID, "article_save", details); err != nil {
			return fmt.Errorf("writing audit log: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return outcome, nil
}

func intPtr(v int) *int { return &v }

func intPtrCopy(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func strPtr(s string) *string { return &s }

package workflow

import (
	"fmt"
	"testing"

	"github.com/s/writersDesk/internal/ai"
	"github.com/s/writersDesk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type syncCall struct {
	reference string
	candidate string
}

// Детерминированная замена внешнего оценщика: score по содержимому статьи
type fakeEvaluator struct {
	scores       map[string]int
	feedbacks    map[string]string
	scoreFailure *ai.Failure
	syncResult   ai.SyncResult
	syncFailure  *ai.Failure

	scoreCalls int
	lastRules  []string
	syncCalls  []syncCall
}

func (f *fakeEvaluator) ScoreArticle(content string, rules []string) ai.ScoreResult {
	f.scoreCalls++
	f.lastRules = rules
	if f.scoreFailure != nil {
		return ai.ScoreResult{Failure: f.scoreFailure}
	}
	score, ok := f.scores[content]
	if !ok {
		score = 50
	}
	return ai.ScoreResult{Score: score, Feedback: f.feedbacks[content]}
}

func (f *fakeEvaluator) SyncArticle(reference, candidate string) ai.SyncResult {
	f.syncCalls = append(f.syncCalls, syncCall{reference: reference, candidate: candidate})
	if f.syncFailure != nil {
		return ai.SyncResult{Failure: f.syncFailure}
	}
	return f.syncResult
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// У in-memory sqlite своя база на каждое соединение
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Module{},
		&models.Article{},
		&models.WritingRule{},
		&models.UserLog{},
	))
	return db
}

func newModule(t *testing.T, db *gorm.DB) (models.User, models.Module) {
	t.Helper()

	lead := models.User{Name: "Lead", Email: "lead@example.com", RoleID: models.RoleLead}
	require.NoError(t, db.Create(&lead).Error)

	module := models.Module{Title: "Onboarding", LeadWriterID: lead.ID}
	require.NoError(t, db.Create(&module).Error)

	return lead, module
}

func reload(t *testing.T, db *gorm.DB, id uint) models.Article {
	t.Helper()
	var article models.Article
	require.NoError(t, db.First(&article, id).Error)
	return article
}

func TestSaveArticleSoleArticle(t *testing.T) {
	db := newTestDB(t)
	lead, module := newModule(t, db)

	eval := &fakeEvaluator{
		scores:    map[string]int{"only text": 80},
		feedbacks: map[string]string{"only text": "tighten the opening"},
	}
	svc := New(db, eval)

	article := models.Article{Title: "Only", Content: "only text", ModuleID: module.ID}
	outcome, err := svc.SaveArticle(lead, &article)
	require.NoError(t, err)
	assert.False(t, outcome.Degraded)

	saved := reload(t, db, article.ID)
	require.NotNil(t, saved.Score)
	assert.Equal(t, 80, *saved.Score)
	assert.Equal(t, "tighten the opening", *saved.Feedback)

	// Сравнивать не с чем: sync_level равен собственной оценке
	require.NotNil(t, saved.SyncLevel)
	assert.Equal(t, 80, *saved.SyncLevel)
	assert.Equal(t, SuggestionNoBaseline, *saved.SyncSuggestion)
	assert.Empty(t, eval.syncCalls)
}

// Сценарий из четырех статей: A1=80, A2=95 (лучшая), A3=95 (ничья),
// A4=60 (ниже лучшей - единственный вызов Sync Client)
func TestSaveArticleEndToEnd(t *testing.T) {
	db := newTestDB(t)
	_, module := newModule(t, db)

	writer := models.User{Name: "Writer", Email: "writer@example.com", RoleID: models.RoleWriter}
	require.NoError(t, db.Create(&writer).Error)

	eval := &fakeEvaluator{
		scores: map[string]int{
			"text a1": 80,
			"text a2": 95,
			"text a3": 95,
			"text a4": 60,
		},
		syncResult: ai.SyncResult{SyncLevel: 40, Suggestion: "use the same calm tone"},
	}
	svc := New(db, eval)

	a1 := models.Article{Title: "A1", Content: "text a1", ModuleID: module.ID}
	_, err := svc.SaveArticle(writer, &a1)
	require.NoError(t, err)

	a2 := models.Article{Title: "A2", Content: "text a2", ModuleID: module.ID}
	_, err = svc.SaveArticle(writer, &a2)
	require.NoError(t, err)

	// A2 обогнала A1: без вызова Sync Client, canned-подтверждение
	saved2 := reload(t, db, a2.ID)
	assert.Equal(t, 95, *saved2.SyncLevel)
	assert.Equal(t, SuggestionInSync, *saved2.SyncSuggestion)
	assert.Empty(t, eval.syncCalls)

	// A3 делит максимум с A2: ничья тоже не требует синхронизации
	a3 := models.Article{Title: "A3", Content: "text a3", ModuleID: module.ID}
	_, err = svc.SaveArticle(writer, &a3)
	require.NoError(t, err)

	saved3 := reload(t, db, a3.ID)
	assert.Equal(t, 95, *saved3.SyncLevel)
	assert.Equal(t, SuggestionInSync, *saved3.SyncSuggestion)
	assert.Empty(t, eval.syncCalls)

	// A4 ниже лучшей: ровно один вызов Sync Client с (лучшая, кандидатка),
	// результат сохраняется как есть
	a4 := models.Article{Title: "A4", Content: "text a4", ModuleID: module.ID}
	_, err = svc.SaveArticle(writer, &a4)
	require.NoError(t, err)

	require.Len(t, eval.syncCalls, 1)
	// При равных 95 эталоном остается более ранняя A2
	assert.Equal(t, "text a2", eval.syncCalls[0].reference)
	assert.Equal(t, "text a4", eval.syncCalls[0].candidate)

	saved4 := reload(t, db, a4.ID)
	assert.Equal(t, 60, *saved4.Score)
	assert.Equal(t, 40, *saved4.SyncLevel)
	assert.Equal(t, "use the same calm tone", *saved4.SyncSuggestion)
}

func TestSaveArticleScoringFailure(t *testing.T) {
	db := newTestDB(t)
	_, module := newModule(t, db)

	writer := models.User{Name: "Writer", Email: "writer@example.com", RoleID: models.RoleWriter}
	require.NoError(t, db.Create(&writer).Error)

	eval := &fakeEvaluator{
		scoreFailure: &ai.Failure{Reason: ai.FailureTransport, Err: fmt.Errorf("connection refused")},
	}
	svc := New(db, eval)

	article := models.Article{Title: "Broken", Content: "text", ModuleID: module.ID}
	outcome, err := svc.SaveArticle(writer, &article)

	// Сбой оценщика не валит сохранение
	require.NoError(t, err)
	assert.True(t, outcome.Degraded)
	require.Len(t, outcome.Warnings, 1)
	assert.Contains(t, outcome.Warnings[0], "scoring unavailable")

	saved := reload(t, db, article.ID)
	assert.Nil(t, saved.Score)
	assert.Nil(t, saved.Feedback)
	assert.Nil(t, saved.SyncLevel)
	assert.Equal(t, SuggestionNoBaseline, *saved.SyncSuggestion)
}

// Соседи есть, но ни один не оценен (прошлые сохранения прошли без оценки):
// эталона нет, ветка работает как для единственной статьи
func TestSaveArticleNoScoredNeighbors(t *testing.T) {
	db := newTestDB(t)
	_, module := newModule(t, db)

	writer := models.User{Name: "Writer", Email: "writer@example.com", RoleID: models.RoleWriter}
	require.NoError(t, db.Create(&writer).Error)

	sibling := models.Article{Title: "Sibling", Content: "sibling text", ModuleID: module.ID, WriterID: writer.ID}
	require.NoError(t, db.Create(&sibling).Error)

	eval := &fakeEvaluator{
		scoreFailure: &ai.Failure{Reason: ai.FailureMalformed, Err: fmt.Errorf("no score in response")},
	}
	svc := New(db, eval)

	article := models.Article{Title: "Next", Content: "next text", ModuleID: module.ID}
	outcome, err := svc.SaveArticle(writer, &article)
	require.NoError(t, err)
	assert.True(t, outcome.Degraded)

	saved := reload(t, db, article.ID)
	assert.Nil(t, saved.Score)
	assert.Nil(t, saved.SyncLevel)
	assert.Equal(t, SuggestionNoBaseline, *saved.SyncSuggestion)
	assert.Empty(t, eval.syncCalls)
}

func TestSaveArticleSyncFailure(t *testing.T) {
	db := newTestDB(t)
	_, module := newModule(t, db)

	writer := models.User{Name: "Writer", Email: "writer@example.com", RoleID: models.RoleWriter}
	require.NoError(t, db.Create(&writer).Error)

	eval := &fakeEvaluator{
		scores:      map[string]int{"best text": 90, "weak text": 60},
		syncFailure: &ai.Failure{Reason: ai.FailureTimeout, Err: fmt.Errorf("evaluator call exceeded 30s")},
	}
	svc := New(db, eval)

	best := models.Article{Title: "Best", Content: "best text", ModuleID: module.ID}
	_, err := svc.SaveArticle(writer, &best)
	require.NoError(t, err)

	weak := models.Article{Title: "Weak", Content: "weak text", ModuleID: module.ID}
	outcome, err := svc.SaveArticle(writer, &weak)
	require.NoError(t, err)

	assert.True(t, outcome.Degraded)
	require.Len(t, outcome.Warnings, 1)
	assert.Contains(t, outcome.Warnings[0], "sync unavailable")

	// Оценка сохранилась, sync-поля пустые
	saved := reload(t, db, weak.ID)
	assert.Equal(t, 60, *saved.Score)
	assert.Nil(t, saved.SyncLevel)
	assert.Nil(t, saved.SyncSuggestion)
}

func TestSaveArticleWriterAssignedOnce(t *testing.T) {
	db := newTestDB(t)
	_, module := newModule(t, db)

	writer := models.User{Name: "Writer", Email: "writer@example.com", RoleID: models.RoleWriter}
	require.NoError(t, db.Create(&writer).Error)
	adminUser := models.User{Name: "Admin", Email: "admin@example.com", RoleID: models.RoleAdmin}
	require.NoError(t, db.Create(&adminUser).Error)

	eval := &fakeEvaluator{scores: map[string]int{}}
	svc := New(db, eval)

	article := models.Article{Title: "Mine", Content: "v1", ModuleID: module.ID}
	_, err := svc.SaveArticle(writer, &article)
	require.NoError(t, err)
	assert.Equal(t, writer.ID, article.WriterID)

	// Правка админом не переназначает автора
	article.Content = "v2"
	_, err = svc.SaveArticle(adminUser, &article)
	require.NoError(t, err)

	saved := reload(t, db, article.ID)
	assert.Equal(t, writer.ID, saved.WriterID)
}

func TestSaveArticleIdempotentResave(t *testing.T) {
	db := newTestDB(t)
	_, module := newModule(t, db)

	writer := models.User{Name: "Writer", Email: "writer@example.com", RoleID: models.RoleWriter}
	require.NoError(t, db.Create(&writer).Error)

	eval := &fakeEvaluator{
		scores:     map[string]int{"best text": 90, "weak text": 60},
		syncResult: ai.SyncResult{SyncLevel: 55, Suggestion: "vary sentence length"},
	}
	svc := New(db, eval)

	best := models.Article{Title: "Best", Content: "best text", ModuleID: module.ID}
	_, err := svc.SaveArticle(writer, &best)
	require.NoError(t, err)

	weak := models.Article{Title: "Weak", Content: "weak text", ModuleID: module.ID}
	_, err = svc.SaveArticle(writer, &weak)
	require.NoError(t, err)
	first := reload(t, db, weak.ID)

	// Повторное сохранение без изменений дает тот же результат
	_, err = svc.SaveArticle(writer, &weak)
	require.NoError(t, err)
	second := reload(t, db, weak.ID)

	assert.Equal(t, *first.Score, *second.Score)
	assert.Equal(t, *first.SyncLevel, *second.SyncLevel)
	assert.Equal(t, *first.SyncSuggestion, *second.SyncSuggestion)
	require.Len(t, eval.syncCalls, 2)
	assert.Equal(t, eval.syncCalls[0], eval.syncCalls[1])
}

func TestSaveArticleRulesReachEvaluator(t *testing.T) {
	db := newTestDB(t)
	lead, module := newModule(t, db)

	rules := []models.WritingRule{
		{LeadWriterID: lead.ID, RuleText: "no jargon", IsActive: true},
		{LeadWriterID: lead.ID, RuleText: "active voice", IsActive: true},
		{LeadWriterID: lead.ID, RuleText: "retired rule", IsActive: false},
	}
	for i := range rules {
		require.NoError(t, db.Create(&rules[i]).Error)
	}

	eval := &fakeEvaluator{scores: map[string]int{}}
	svc := New(db, eval)

	article := models.Article{Title: "T", Content: "text", ModuleID: module.ID}
	_, err := svc.SaveArticle(lead, &article)
	require.NoError(t, err)

	assert.Equal(t, 1, eval.scoreCalls)
	assert.Equal(t, []string{"no jargon", "active voice"}, eval.lastRules)
}

func TestSaveArticleWritesAuditLog(t *testing.T) {
	db := newTestDB(t)
	lead, module := newModule(t, db)

	eval := &fakeEvaluator{scores: map[string]int{"text": 70}}
	svc := New(db, eval)

	article := models.Article{Title: "T", Content: "text", ModuleID: module.ID}
	_, err := svc.SaveArticle(lead, &article)
	require.NoError(t, err)

	var entry models.UserLog
	require.NoError(t, db.Where("action = ?", "article_save").First(&entry).Error)
	assert.Equal(t, lead.ID, entry.UserID)
	assert.Contains(t, string(entry.Details), `"score":70`)
}

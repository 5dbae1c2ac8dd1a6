package models

import (
	"time"
)

// Article (Статья) - текст автора внутри модуля.
// Score/Feedback/SyncLevel/SyncSuggestion заполняет workflow после каждого
// сохранения, через API они не редактируются.
type Article struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title    string `json:"title"`
	Content  string `gorm:"type:text" json:"content"`
	ModuleID uint   `json:"module_id"`
	WriterID uint   `json:"writer_id"`

	// nil = оценка недоступна (AI не ответил). Score и SyncLevel в [1,100].
	Score          *int    `json:"score"`
	Feedback       *string `json:"feedback"`
	SyncLevel      *int    `json:"sync_level"`
	SyncSuggestion *string `json:"sync_suggestion"`

	Writer User `json:"writer" gorm:"foreignKey:WriterID;constraint:OnDelete:CASCADE;"`
}

package handlers

import (
	"log"
	"net/http"

	"github.com/s/writersDesk/internal/models"
	"github.com/s/writersDesk/internal/storage"
)

// Структура для отображения модуля со сводкой по статьям
type ModuleView struct {
	Module       models.Module
	ArticleCount int
	BestTitle    string
	BestScore    int
	HasBest      bool
}

// GET /modules - обзор модулей. "Лучшая статья" считается на лету,
// нигде не кэшируется.
func (h *Handler) HandleModulesPage(w http.ResponseWriter, r *http.Request) {
	roleID, userID := h.GetUserRoleID(r)
	session, _ := h.Store.Get(r, "session")

	var modules []models.Module
	err := h.DB.Preload("LeadWriter").Preload("Articles").Find(&modules).Error
	if err != nil {
		log.Printf("Ошибка получения данных: %v", err)
	}

	var views []ModuleView
	for _, m := range modules {
		view := ModuleView{
			Module:       m,
			ArticleCount: len(m.Articles),
		}

		best, err := storage.BestArticle(h.DB, m.ID)
		if err != nil {
			log.Printf("Ошибка поиска лучшей статьи модуля %d: %v", m.ID, err)
		} else if best != nil {
			view.HasBest = true
			view.BestTitle = best.Title
			view.BestScore = *best.Score
		}

		views = append(views, view)
	}

	data := PageData{
		Title:           "Модули",
		IsAuthenticated: userID != 0,
		UserName:        toString(session.Values["name"]),
		UserPictureURL:  toString(session.Values["picture_url"]),
		RoleID:          roleID,
		UserID:          userID,
		ModuleViews:     views,
		CurrentPath:     r.URL.Path,
	}

	if err := h.Tmpl.ExecuteTemplate(w, "modules.html", data); err != nil {
		log.Printf("Ошибка рендеринга шаблона: %v", err)
		http.Error(w, "Ошибка сервера при формировании страницы", http.StatusInternalServerError)
	}
}

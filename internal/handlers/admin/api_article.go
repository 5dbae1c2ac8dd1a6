package admin

import (
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/s/writersDesk/internal/models"
	"github.com/s/writersDesk/internal/policy"
	"gorm.io/gorm"
)

// Ответ API по статье. Для чужих статей отдаем только отрендеренную
// read-only проекцию контента, сырой текст видит лишь автор и админ.
type articleResponse struct {
	models.Article
	ContentHTML string   `json:"content_html,omitempty"`
	Editable    bool     `json:"editable"`
	Warnings    []string `json:"warnings,omitempty"`
}

func renderContent(content string) string {
	escaped := template.HTMLEscapeString(content)
	return "<p>" + strings.ReplaceAll(escaped, "\n\n", "</p><p>") + "</p>"
}

func articleView(article models.Article, actor models.User, warnings []string) articleResponse {
	resp := articleResponse{
		Article:  article,
		Editable: policy.CanEditArticle(actor, article),
		Warnings: warnings,
	}
	if !resp.Editable {
		resp.ContentHTML = renderContent(article.Content)
		resp.Content = ""
	}
	return resp
}

// Та же проекция для списков статей
func articleViews(articles []models.Article, actor models.User) []articleResponse {
	views := make([]articleResponse, 0, len(articles))
	for _, article := range articles {
		views = append(views, articleView(article, actor, nil))
	}
	return views
}

// POST /api/articles - создание статьи через workflow
func (s *Service) CreateArticleAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	actor, ok := s.CurrentUser(r)
	if !ok {
		jsonError(w, "User not identified", http.StatusUnauthorized)
		return
	}

	var input struct {
		ModuleID uint   `json:"module_id"`
		Title    string `json:"title"`
		Content  string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		jsonError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if input.ModuleID == 0 || input.Title == "" || input.Content == "" {
		jsonError(w, "module_id, title and content are required", http.StatusBadRequest)
		return
	}

	var module models.Module
	if err := s.DB.First(&module, input.ModuleID).Error; err != nil {
		jsonError(w, "Module not found", http.StatusNotFound)
		return
	}

	article := models.Article{
		Title:    input.Title,
		Content:  input.Content,
		ModuleID: input.ModuleID,
	}

	outcome, err := s.Flow.SaveArticle(actor, &article)
	if err != nil {
		log.Println("Ошибка сохранения статьи:", err)
		jsonError(w, "Failed to save article", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(articleView(article, actor, outcome.Warnings))
}

// ==========================================
// GET /api/articles/{id} (Просмотр)
// PUT /api/articles/{id} (Правка + переоценка)
// DELETE /api/articles/{id} (Удаление)
// ==========================================
func (s *Service) HandleArticleByIDAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		jsonError(w, "Invalid article ID", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getArticleByID(w, r, id)
	case http.MethodPut:
		s.updateArticle(w, r, id)
	case http.MethodDelete:
		s.deleteArticle(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Service) getArticleByID(w http.ResponseWriter, r *http.Request, id int) {
	actor, ok := s.CurrentUser(r)
	if !ok {
		jsonError(w, "User not identified", http.StatusUnauthorized)
		return
	}

	var article models.Article
	if err := s.DB.Preload("Writer").First(&article, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			jsonError(w, "Article not found", http.StatusNotFound)
		} else {
			jsonError(w, "Database error", http.StatusInternalServerError)
		}
		return
	}

	json.NewEncoder(w).Encode(articleView(article, actor, nil))
}

func (s *Service) updateArticle(w http.ResponseWriter, r *http.Request, id int) {
	actor, ok := s.CurrentUser(r)
	if !ok {
		jsonError(w, "User not identified", http.StatusUnauthorized)
		return
	}

	var article models.Article
	if err := s.DB.First(&article, id).Error; err != nil {
		jsonError(w, "Article not found", http.StatusNotFound)
		return
	}

	if !policy.CanEditArticle(actor, article) {
		jsonError(w, "Only the writer of the article can edit it", http.StatusForbidden)
		return
	}

	var input struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		jsonError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if input.Title == "" || input.Content == "" {
		jsonError(w, "title and content are required", http.StatusBadRequest)
		return
	}

	// Меняются только title и content; score/feedback/sync пересчитает workflow
	article.Title = input.Title
	article.Content = input.Content

	outcome, err := s.Flow.SaveArticle(actor, &article)
	if err != nil {
		log.Println("Ошибка сохранения статьи:", err)
		jsonError(w, "Failed to save article", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(articleView(article, actor, outcome.Warnings))
}

func (s *Service) deleteArticle(w http.ResponseWriter, r *http.Request, id int) {
	actor, ok := s.CurrentUser(r)
	if !ok {
		jsonError(w, "User not identified", http.StatusUnauthorized)
		return
	}

	var article models.Article
	if err := s.DB.First(&article, id).Error; err != nil {
		jsonError(w, "Article not found", http.StatusNotFound)
		return
	}

	if !policy.CanDeleteArticle(actor, article) {
		jsonError(w, "Only the writer of the article can delete it", http.StatusForbidden)
		return
	}

	if err := s.DB.Delete(&article).Error; err != nil {
		jsonError(w, "Database error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Article deleted successfully"})
}

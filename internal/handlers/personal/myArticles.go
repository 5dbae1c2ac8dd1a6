package personal

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/s/writersDesk/internal/handlers"
	"github.com/s/writersDesk/internal/models"
)

type Service struct {
	handlers.Handler
}

func jsonError(w http.ResponseWriter, message string, code int) {
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// ==========================================
// 1. HTML Хендлер: Мои статьи
// ==========================================
func (s *Service) HandleMyArticlesPage(w http.ResponseWriter, r *http.Request) {
	roleID, userID := s.GetUserRoleID(r)
	session, _ := s.Store.Get(r, "session")

	if userID == 0 {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	var articles []models.Article
	if err := s.DB.Where("writer_id = ?", userID).Order("updated_at desc").Find(&articles).Error; err != nil {
		log.Printf("Ошибка при получении статей: %v", err)
		http.Error(w, "Не удалось загрузить статьи", http.StatusInternalServerError)
		return
	}

	data := handlers.PageData{
		Title:           "Мои статьи",
		IsAuthenticated: true,
		UserID:          userID,
		RoleID:          roleID,
		UserName:        toString(session.Values["name"]),
		UserPictureURL:  toString(session.Values["picture_url"]),
		CurrentPath:     r.URL.Path,
		Articles:        articles,
	}

	if err := s.Tmpl.ExecuteTemplate(w, "myArticles", data); err != nil {
		log.Printf("Ошибка рендеринга шаблона: %v", err)
		http.Error(w, "Ошибка сервера при формировании страницы", http.StatusInternalServerError)
	}
}

// ==========================================
// 2. JSON: GET /api/my/articles
// ==========================================
func (s *Service) GetMyArticlesAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	_, userID := s.GetUserRoleID(r)
	if userID == 0 {
		jsonError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var articles []models.Article
	if err := s.DB.Where("writer_id = ?", userID).Order("updated_at desc").Find(&articles).Error; err != nil {
		jsonError(w, "Database error", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(articles)
}

func toString(v interface{}) string {
	s, _ := v.(string)
	return s
}

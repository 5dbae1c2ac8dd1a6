package admin

import (
	"encoding/json"
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

// GET /admin/dashboard - страница панели ведущего автора
func (serv Service) HandleAdminPage(w http.ResponseWriter, r *http.Request) {
	session, err := serv.Store.Get(r, "session")
	if err != nil {
		http.Error(w, "Ошибка получения сессии. Попробуйте войти снова.", http.StatusInternalServerError)
		return
	}

	userIDvalue := session.Values["user_id"]
	userID, ok := userIDvalue.(uint)
	if !ok || userID == 0 {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	var user models.User
	if err := serv.DB.Preload("Role").First(&user, userID).Error; err != nil {
		http.Error(w, "Пользователь не найден", http.StatusNotFound)
		return
	}

	data := handlers.PageData{
		Title:           "Панель ведущего автора",
		IsAuthenticated: userID != 0,
		UserID:          userID,
		RoleID:          user.RoleID,
		UserName:        user.Name,
		UserPictureURL:  user.Picture,
		CurrentPath:     r.URL.Path,
	}

	serv.Tmpl.ExecuteTemplate(w, "adminIndex", data)
}

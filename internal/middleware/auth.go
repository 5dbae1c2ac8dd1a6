package middleware

import (
	"net/http"

	"github.com/s/writersDesk/internal/handlers"
	"github.com/s/writersDesk/internal/models"
)

// RequireAuth пускает дальше только аутентифицированных пользователей
func RequireAuth(h *handlers.Handler) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			_, isAuthenticated := h.GetAuthenticatedUserID(r)
			if !isAuthenticated {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		}
	}
}

// RequiredRole создает Middleware, требующее определенного RoleID.
// Админ проходит любую проверку роли.
func RequiredRole(h *handlers.Handler, requiredRoleID uint) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {

			// 1. Проверка Аутентификации
			userID, isAuthenticated := h.GetAuthenticatedUserID(r)
			if !isAuthenticated {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}

			// 2. Получение данных пользователя для проверки Роли
			var user models.User
			if err := h.DB.First(&user, userID).Error; err != nil {
				http.Error(w, "User not found or database error", http.StatusUnauthorized)
				return
			}

			// 3. Проверка RoleID
			if user.RoleID != requiredRoleID && user.RoleID != models.RoleAdmin {
				h.HandleForbiddenPage(w, r)
				return
			}

			next.ServeHTTP(w, r)
		}
	}
}

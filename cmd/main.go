package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
	"github.com/s/writersDesk/internal/ai"
	"github.com/s/writersDesk/internal/auth"
	"github.com/s/writersDesk/internal/database"
	"github.com/s/writersDesk/internal/handlers"
	"github.com/s/writersDesk/internal/handlers/admin"
	"github.com/s/writersDesk/internal/handlers/personal"
	"github.com/s/writersDesk/internal/middleware"
	"github.com/s/writersDesk/internal/models"
	"github.com/s/writersDesk/internal/workflow"
)

func main() {
	// ---------------------------
	// 0. Загрузка переменных окружения
	// ---------------------------
	err := godotenv.Load()
	if err != nil {
		log.Println("Предупреждение: Не удалось загрузить файл .env. Используются системные переменные.")
	}

	// ---------------------------
	// 1. Подключаем GORM (База данных)
	// ---------------------------
	db, err := database.Connect()
	if err != nil {
		log.Fatal("Ошибка подключения к БД:", err)
	}

	// ---------------------------
	// 2. Делаем миграции
	// ---------------------------
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("Ошибка миграции:", err)
	}

	// ---------------------------
	// 3. Запускаем сиды (роли)
	// ---------------------------
	if err := database.Seed(db); err != nil {
		log.Println("Ошибка сидов (возможно, данные уже есть):", err)
	}

	// ---------------------------
	// 4. Настраиваем Google OAuth
	// ---------------------------
	clientId := os.Getenv("GOOGLE_CLIENT_ID")
	clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	redirectURL := os.Getenv("GOOGLE_REDIRECT_URL")

	if clientId == "" || clientSecret == "" || redirectURL == "" {
		log.Fatal("Ошибка: Переменные GOOGLE_... не установлены в .env")
	}

	oauthConfig := auth.InitGoogleOAuthConfig(clientId, clientSecret, redirectURL)

	// ---------------------------
	// 5. Настройка сессий
	// ---------------------------
	sessionKey := os.Getenv("SESSION_KEY")
	if sessionKey == "" {
		sessionKey = "super-secret-default-key" // Только для разработки!
		log.Println("Внимание: SESSION_KEY не задан, используется дефолтный.")
	}
	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   false, // Поставьте true, если используете HTTPS
	}

	// ---------------------------
	// 6. Клиент AI-оценщика и workflow
	// ---------------------------
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		log.Fatal("Ошибка: ANTHROPIC_API_KEY не установлен в .env")
	}

	model := os.Getenv("AI_MODEL")
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}

	timeout := 30 * time.Second
	if s := os.Getenv("AI_TIMEOUT_SECONDS"); s != "" {
		if seconds, err := strconv.Atoi(s); err == nil && seconds > 0 {
			timeout = time.Duration(seconds) * time.Second
		}
	}

	evaluator, err := ai.New(apiKey, model, timeout)
	if err != nil {
		log.Fatal("Ошибка создания AI-клиента:", err)
	}

	flow := workflow.New(db, evaluator)

	// ---------------------------
	// 7. Инициализация Хендлеров
	// ---------------------------
	h := handlers.NewHandler(db, store, oauthConfig, flow)

	adminService := admin.Service{
		Handler: *h,
	}
	personalService := personal.Service{
		Handler: *h,
	}

	leadMiddleware := middleware.RequiredRole(h, models.RoleLead)
	authMiddleware := middleware.RequireAuth(h)

	// ---------------------------
	// 8. Роутинг с Gorilla Mux
	// ---------------------------
	r := mux.NewRouter()

	// --- Статические файлы (CSS, JS, Images) ---
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir("./static"))))

	// --- Публичные маршруты ---
	r.HandleFunc("/", h.HandleMain).Methods("GET")
	r.HandleFunc("/auth/google/login", h.HandleGoogleLogin).Methods("GET")
	r.HandleFunc("/auth/google/callback", h.HandleGoogleCallback).Methods("GET")
	r.HandleFunc("/logout", h.HandleLogout).Methods("GET", "POST")

	// --- Подача статьи ---
	r.HandleFunc("/submit", authMiddleware(h.HandleSubmitForm)).Methods("GET")
	r.HandleFunc("/submit", authMiddleware(h.HandleSubmitArticle)).Methods("POST")
	r.HandleFunc("/submit/success", authMiddleware(h.HandleSubmitSuccess)).Methods("GET")

	// --- Страницы ---
	r.HandleFunc("/modules", authMiddleware(h.HandleModulesPage)).Methods("GET")
	r.HandleFunc("/my/articles", authMiddleware(personalService.HandleMyArticlesPage)).Methods("GET")
	r.HandleFunc("/admin/dashboard", leadMiddleware(adminService.HandleAdminPage)).Methods("GET")

	// --- API Модулей ---
	r.HandleFunc("/api/modules", authMiddleware(adminService.HandleModulesAPI)).Methods("GET")
	r.HandleFunc("/api/modules", leadMiddleware(adminService.HandleModulesAPI)).Methods("POST")
	r.HandleFunc("/api/modules/{id}", authMiddleware(adminService.HandleModuleByIDAPI)).Methods("GET", "PUT", "DELETE")
	r.HandleFunc("/api/modules/{id}/articles", authMiddleware(adminService.GetModuleArticlesAPI)).Methods("GET")
	r.HandleFunc("/api/modules/{id}/best", authMiddleware(adminService.GetBestArticleAPI)).Methods("GET")

	// --- API Статей ---
	r.HandleFunc("/api/articles", authMiddleware(adminService.CreateArticleAPI)).Methods("POST")
	r.HandleFunc("/api/articles/{id}", authMiddleware(adminService.HandleArticleByIDAPI)).Methods("GET", "PUT", "DELETE")
	r.HandleFunc("/api/my/articles", authMiddleware(personalService.GetMyArticlesAPI)).Methods("GET")

	// --- API Правил ---
	r.HandleFunc("/api/rules", authMiddleware(adminService.HandleRulesAPI)).Methods("GET")
	r.HandleFunc("/api/rules", leadMiddleware(adminService.HandleRulesAPI)).Methods("POST")
	r.HandleFunc("/api/rules/{id}", leadMiddleware(adminService.UpdateRuleAPI)).Methods("PUT")
	r.HandleFunc("/api/rules/{id}", leadMiddleware(adminService.DeactivateRuleAPI)).Methods("DELETE")

	// ---------------------------
	// 9. Запуск сервера
	// ---------------------------
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	corsHandler := corsMiddleware(r)
	fmt.Printf("Сервер запущен: http://localhost:%s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Разрешаем запросы с любого источника (для разработки)
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

package handlers

import (
	"context"
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"golang.org/x/oauth2"

	"github.com/s/writersDesk/internal/models"
	"github.com/s/writersDesk/internal/storage"
	"github.com/s/writersDesk/internal/workflow"

	"gorm.io/gorm"
)

type Handler struct {
	DB     *gorm.DB
	Store  *sessions.CookieStore
	Config *oauth2.Config
	Tmpl   *template.Template
	Flow   *workflow.Service
}

func NewHandler(db *gorm.DB, store *sessions.CookieStore, config *oauth2.Config, flow *workflow.Service) *Handler {

	funcMap := template.FuncMap{
		"nl2br": func(s string) template.HTML {
			escaped := template.HTMLEscapeString(s)
			return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
		},
	}

	tmpl := template.New("").Funcs(funcMap)

	// 1. Парсим файлы в корне папки template (например, index.html)
	_, err := tmpl.ParseGlob("template/*.html")
	if err != nil {
		log.Println("Warning parsing root templates:", err)
	}

	// 2. Парсим файлы во вложенных папках (например, template/exceptions/...)
	_, err = tmpl.ParseGlob("template/**/*.html")
	if err != nil {
		log.Fatal("Error parsing nested templates:", err)
	}

	return &Handler{
		DB:     db,
		Store:  store,
		Config: config,
		Tmpl:   tmpl,
		Flow:   flow,
	}
}

type PageData struct {
	Title           string
	IsAuthenticated bool
	UserID          uint
	RoleID          uint
	Email           string
	UserName        string
	UserPictureURL  string
	CurrentPath     string

	Modules     []models.Module
	ModuleViews []ModuleView
	Articles    []models.Article
	Article     models.Article
	Warnings    []string
}

func (h *Handler) GetAuthenticatedUserID(r *http.Request) (uint, bool) {
	session, _ := h.Store.Get(r, "session")

	userIDValue := session.Values["user_id"]
	userID, ok := userIDValue.(uint)

	return userID, ok && userID != 0
}

func (h *Handler) GetUserRoleID(r *http.Request) (uint, uint) {
	session, _ := h.Store.Get(r, "session")

	userIDvalue := session.Values["user_id"]
	userID, _ := userIDvalue.(uint)

	roleID := models.RoleGuest

	if userID != 0 {
		var user models.User
		err := h.DB.Select("role_id").First(&user, userID).Error

		if err == nil {
			roleID = user.RoleID
		}
	}

	return roleID, userID
}

// CurrentUser достает полного пользователя сессии - его передаем в policy и workflow
func (h *Handler) CurrentUser(r *http.Request) (models.User, bool) {
	userID, ok := h.GetAuthenticatedUserID(r)
	if !ok {
		return models.User{}, false
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		return models.User{}, false
	}
	return user, true
}

func (h *Handler) HandleMain(w http.ResponseWriter, r *http.Request) {
	roleID, userID := h.GetUserRoleID(r)
	session, _ := h.Store.Get(r, "session")

	data := PageData{
		Title:           "Главная",
		IsAuthenticated: userID != 0,
		UserID:          userID,
		RoleID:          roleID,
		UserName:        toString(session.Values["name"]),
		UserPictureURL:  toString(session.Values["picture_url"]),
	}

	if err := h.Tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		log.Printf("Error rendering index.html: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func toString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func (h *Handler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	url := h.Config.AuthCodeURL("random_state")
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (h *Handler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("state") != "random_state" {
		http.Error(w, "Invalid state", http.StatusUnauthorized)
		return
	}

	code := r.URL.Query().Get("code")
	token, err := h.Config.Exchange(context.Background(), code)
	if err != nil {
		http.Error(w, "Token exchange error", http.StatusBadRequest)
		return
	}

	client := h.Config.Client(context.Background(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		http.Error(w, "Google API error", http.StatusBadRequest)
		return
	}
	defer resp.Body.Close()

	var userInfo models.User
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		http.Error(w, "JSON decode error", http.StatusInternalServerError)
		return
	}

	userID, err := storage.SaveUser(h.DB, userInfo)
	if err != nil {
		http.Error(w, "DB save error", http.StatusInternalServerError)
		return
	}

	if err := storage.LogAction(h.DB, userID, "login", map[string]string{"via": "google"}); err != nil {
		log.Printf("Ошибка записи в журнал: %v", err)
	}

	session, _ := h.Store.Get(r, "session")
	session.Values["user_id"] = userID
	session.Values["email"] = userInfo.Email
	session.Values["name"] = userInfo.Name
	session.Values["picture_url"] = userInfo.Picture
	session.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   86400 * 7,
	}
	session.Save(r, w)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.Store.Get(r, "session")
	session.Options.MaxAge = -1
	session.Save(r, w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) HandleForbiddenPage(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusForbidden)
	if err := h.Tmpl.ExecuteTemplate(w, "403", nil); err != nil {
		http.Error(w, "Forbidden", http.StatusForbidden)
	}
}

package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/s/writersDesk/internal/models"
)

// GET /submit - форма подачи статьи
func (h *Handler) HandleSubmitForm(w http.ResponseWriter, r *http.Request) {
	roleID, userID := h.GetUserRoleID(r)
	session, _ := h.Store.Get(r, "session")

	var modules []models.Module
	if err := h.DB.Order("title asc").Find(&modules).Error; err != nil {
		log.Printf("Ошибка загрузки модулей: %v", err)
		http.Error(w, "Не удалось загрузить модули", http.StatusInternalServerError)
		return
	}

	data := PageData{
		Title:           "Подать статью",
		IsAuthenticated: true,
		UserID:          userID,
		RoleID:          roleID,
		UserName:        toString(session.Values["name"]),
		CurrentPath:     r.URL.Path,
		Modules:         modules,
	}

	if err := h.Tmpl.ExecuteTemplate(w, "article_form.html", data); err != nil {
		log.Printf("Ошибка рендеринга формы: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// POST /submit - создание статьи. Автор назначается из сессии,
// оценка и sync считаются внутри workflow.
func (h *Handler) HandleSubmitArticle(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	moduleID, _ := strconv.Atoi(r.FormValue("module_id"))
	title := r.FormValue("title")
	content := r.FormValue("content")

	if moduleID == 0 || title == "" || content == "" {
		http.Error(w, "Module, title and content are required", http.StatusBadRequest)
		return
	}

	var module models.Module
	if err := h.DB.First(&module, moduleID).Error; err != nil {
		http.Error(w, "Модуль не найден", http.StatusNotFound)
		return
	}

	article := models.Article{
		Title:    title,
		Content:  content,
		ModuleID: uint(moduleID),
	}

	outcome, err := h.Flow.SaveArticle(actor, &article)
	if err != nil {
		log.Printf("Ошибка сохранения статьи: %v", err)
		http.Error(w, "Не удалось сохранить статью", http.StatusInternalServerError)
		return
	}

	if outcome.Degraded {
		log.Printf("Статья %d сохранена без оценки: %v", article.ID, outcome.Warnings)
	}

	http.Redirect(w, r, "/submit/success", http.StatusSeeOther)
}

// GET /submit/success - подтверждение после отправки
func (h *Handler) HandleSubmitSuccess(w http.ResponseWriter, r *http.Request) {
	roleID, userID := h.GetUserRoleID(r)

	data := PageData{
		Title:           "Статья отправлена",
		IsAuthenticated: userID != 0,
		UserID:          userID,
		RoleID:          roleID,
		CurrentPath:     r.URL.Path,
	}

	if err := h.Tmpl.ExecuteTemplate(w, "submit_success.html", data); err != nil {
		log.Printf("Ошибка рендеринга страницы: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

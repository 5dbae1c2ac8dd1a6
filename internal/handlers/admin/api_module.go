package admin

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/s/writersDesk/internal/models"
	"github.com/s/writersDesk/internal/policy"
	"github.com/s/writersDesk/internal/storage"
	"gorm.io/gorm"
)

// ==========================================
// 1. GET /api/modules (Список)
// 2. POST /api/modules (Создание)
// ==========================================
func (s *Service) HandleModulesAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodGet:
		s.getModules(w, r)
	case http.MethodPost:
		s.createModule(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// ==========================================
// 3. GET /api/modules/{id} (Детали)
// 4. PUT /api/modules/{id} (Обновление)
// 5. DELETE /api/modules/{id} (Удаление)
// ==========================================
func (s *Service) HandleModuleByIDAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		jsonError(w, "Invalid module ID", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getModuleByID(w, r, id)
	case http.MethodPut:
		s.updateModule(w, r, id)
	case http.MethodDelete:
		s.deleteModule(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Service) getModules(w http.ResponseWriter, r *http.Request) {
	var modules []models.Module

	result := s.DB.Preload("LeadWriter").Order("created_at desc").Find(&modules)
	if result.Error != nil {
		jsonError(w, "Database error", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(modules)
}

func (s *Service) createModule(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.CurrentUser(r)
	if !ok {
		jsonError(w, "User not identified", http.StatusUnauthorized)
		return
	}

	if !policy.Allowed(actor, policy.KindModule, policy.ActionCreate, 0) {
		jsonError(w, "Only lead writers can create modules", http.StatusForbidden)
		return
	}

	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		jsonError(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	if input.Title == "" {
		jsonError(w, "Title is required", http.StatusBadRequest)
		return
	}

	module := models.Module{
		Title:        input.Title,
		Description:  input.Description,
		LeadWriterID: actor.ID,
	}

	if err := s.DB.Create(&module).Error; err != nil {
		log.Println("Ошибка БД при создании модуля:", err)
		jsonError(w, "Failed to create module", http.StatusInternalServerError)
		return
	}

	s.DB.Preload("LeadWriter").First(&module, module.ID)

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(module)
}

func (s *Service) getModuleByID(w http.ResponseWriter, r *http.Request, id int) {
	actor, ok := s.CurrentUser(r)
	if !ok {
		jsonError(w, "User not identified", http.StatusUnauthorized)
		return
	}

	var module models.Module

	if err := s.DB.Preload("LeadWriter").Preload("Articles").Preload("Articles.Writer").First(&module, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			jsonError(w, "Module not found", http.StatusNotFound)
		} else {
			jsonError(w, "Database error", http.StatusInternalServerError)
		}
		return
	}

	// Чужие статьи уходят в read-only проекции, сырой content видит только автор
	resp := struct {
		models.Module
		Articles []articleResponse `json:"articles"`
	}{Module: module, Articles: articleViews(module.Articles, actor)}

	json.NewEncoder(w).Encode(resp)
}

func (s *Service) updateModule(w http.ResponseWriter, r *http.Request, id int) {
	actor, ok := s.CurrentUser(r)
	if !ok {
		jsonError(w, "User not identified", http.StatusUnauthorized)
		return
	}

	var module models.Module
	if err := s.DB.First(&module, id).Error; err != nil {
		jsonError(w, "Module not found", http.StatusNotFound)
		return
	}

	if !policy.CanEditModule(actor, module) {
		jsonError(w, "Only the lead writer of the module can edit it", http.StatusForbidden)
		return
	}

	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		jsonError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	module.Title = input.Title
	module.Description = input.Description

	if err := s.DB.Save(&module).Error; err != nil {
		jsonError(w, "Failed to update module", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(module)
}

func (s *Service) deleteModule(w http.ResponseWriter, r *http.Request, id int) {
	actor, ok := s.CurrentUser(r)
	if !ok {
		jsonError(w, "User not identified", http.StatusUnauthorized)
		return
	}

	var module models.Module
	if err := s.DB.First(&module, id).Error; err != nil {
		jsonError(w, "Module not found", http.StatusNotFound)
		return
	}

	if !policy.CanDeleteModule(actor, module) {
		jsonError(w, "Only the lead writer of the module can delete it", http.StatusForbidden)
		return
	}

	// Статьи модуля уходят каскадом
	if err := s.DB.Delete(&module).Error; err != nil {
		jsonError(w, "Database error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Module deleted successfully"})
}

// GET /api/modules/{id}/articles - статьи модуля
func (s *Service) GetModuleArticlesAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	actor, ok := s.CurrentUser(r)
	if !ok {
		jsonError(w, "User not identified", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	id, _ := strconv.Atoi(vars["id"])

	var articles []models.Article
	err := s.DB.Preload("Writer").Where("module_id = ?", id).Order("title desc").Find(&articles).Error
	if err != nil {
		jsonError(w, "Database error", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(articleViews(articles, actor))
}

// GET /api/modules/{id}/best - лучшая статья модуля (максимум score)
func (s *Service) GetBestArticleAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	actor, ok := s.CurrentUser(r)
	if !ok {
		jsonError(w, "User not identified", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	id, _ := strconv.Atoi(vars["id"])

	best, err := storage.BestArticle(s.DB, uint(id))
	if err != nil {
		jsonError(w, "Database error", http.StatusInternalServerError)
		return
	}
	if best == nil {
		jsonError(w, "No scored article in this module yet", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(articleView(*best, actor, nil))
}

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
)

// ==========================================
// 1. GET /api/rules (Список)
// 2. POST /api/rules (Создание)
// ==========================================
func (s *Service) HandleRulesAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodGet:
		s.getRules(w, r)
	case http.MethodPost:
		s.createRule(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Service) getRules(w http.ResponseWriter, r *http.Request) {
	query := s.DB.Preload("LeadWriter").Order("created_at asc")

	// ?active=1 - только активные (тот же набор, что уходит в промпт оценки)
	if r.URL.Query().Get("active") == "1" {
		query = query.Where("is_active = ?", true)
	}

	var rules []models.WritingRule
	if err := query.Find(&rules).Error; err != nil {
		jsonError(w, "Database error", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(rules)
}

func (s *Service) createRule(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.CurrentUser(r)
	if !ok {
		jsonError(w, "User not identified", http.StatusUnauthorized)
		return
	}

	if !policy.Allowed(actor, policy.KindRule, policy.ActionCreate, 0) {
		jsonError(w, "Only lead writers can create rules", http.StatusForbidden)
		return
	}

	var input struct {
		RuleText string `json:"rule_text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		jsonError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if input.RuleText == "" {
		jsonError(w, "rule_text is required", http.StatusBadRequest)
		return
	}

	rule := models.WritingRule{
		LeadWriterID: actor.ID,
		RuleText:     input.RuleText,
		IsActive:     true,
	}

	if err := s.DB.Create(&rule).Error; err != nil {
		log.Println("Ошибка БД при создании правила:", err)
		jsonError(w, "Failed to create rule", http.StatusInternalServerError)
		return
	}

	if err := storage.LogAction(s.DB, actor.ID, "rule_change", map[string]interface{}{"rule_id": rule.ID, "created": true}); err != nil {
		log.Printf("Ошибка записи в журнал: %v", err)
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(rule)
}

// PUT /api/rules/{id} - правка текста и активности
func (s *Service) UpdateRuleAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	id, _ := strconv.Atoi(vars["id"])

	actor, ok := s.CurrentUser(r)
	if !ok {
		jsonError(w, "User not identified", http.StatusUnauthorized)
		return
	}

	var rule models.WritingRule
	if err := s.DB.First(&rule, id).Error; err != nil {
		jsonError(w, "Rule not found", http.StatusNotFound)
		return
	}

	if !policy.CanEditRule(actor, rule) {
		jsonError(w, "Only the author of the rule can edit it", http.StatusForbidden)
		return
	}

	var input struct {
		RuleText string `json:"rule_text"`
		IsActive *bool  `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		jsonError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if input.RuleText != "" {
		rule.RuleText = input.RuleText
	}
	if input.IsActive != nil {
		rule.IsActive = *input.IsActive
	}

	if err := s.DB.Save(&rule).Error; err != nil {
		jsonError(w, "Failed to update rule", http.StatusInternalServerError)
		return
	}

	if err := storage.LogAction(s.DB, actor.ID, "rule_change", map[string]interface{}{"rule_id": rule.ID, "is_active": rule.IsActive}); err != nil {
		log.Printf("Ошибка записи в журнал: %v", err)
	}

	json.NewEncoder(w).Encode(rule)
}

// DELETE /api/rules/{id} - правила не удаляем физически, только деактивируем
func (s *Service) DeactivateRuleAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	id, _ := strconv.Atoi(vars["id"])

	actor, ok := s.CurrentUser(r)
	if !ok {
		jsonError(w, "User not identified", http.StatusUnauthorized)
		return
	}

	var rule models.WritingRule
	if err := s.DB.First(&rule, id).Error; err != nil {
		jsonError(w, "Rule not found", http.StatusNotFound)
		return
	}

	if !policy.CanEditRule(actor, rule) {
		jsonError(w, "Only the author of the rule can deactivate it", http.StatusForbidden)
		return
	}

	if err := s.DB.Model(&rule).Update("is_active", false).Error; err != nil {
		jsonError(w, "Failed to deactivate rule", http.StatusInternalServerError)
		return
	}

	if err := storage.LogAction(s.DB, actor.ID, "rule_change", map[string]interface{}{"rule_id": rule.ID, "is_active": false}); err != nil {
		log.Printf("Ошибка записи в журнал: %v", err)
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "deactivated"})
}

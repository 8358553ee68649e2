// Package players — handlers.go обрабатывает POST /api/register.
package players

import (
	"net/http"
	"strings"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/apple-shot/internal/httputil"
)

// Handler обрабатывает HTTP-запросы регистрации.
type Handler struct {
	service *Service
}

// NewHandler создаёт новый обработчик регистрации.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register — POST /api/register.
//
// Тело: {"username": "...", "wallet": "..."}
// Ответ: {"player": {...}} или 400/500 с {"error": "..."}
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Wallet   string `json:"wallet"`
	}
	if err := httputil.DecodeJSON(r.Body, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	username := strings.TrimSpace(req.Username)
	if n := utf8.RuneCountInString(username); n < 2 || n > 20 {
		httputil.WriteError(w, http.StatusBadRequest, "Username must be 2-20 characters")
		return
	}

	player, err := h.service.Register(r.Context(), username, strings.TrimSpace(req.Wallet))
	if err != nil {
		log.WithError(err).Error("Ошибка регистрации игрока")
		httputil.WriteError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"player": player})
}

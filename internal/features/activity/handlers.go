// Package activity — handlers.go обрабатывает GET /api/activity.
package activity

import (
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/apple-shot/internal/httputil"
)

// Handler обрабатывает HTTP-запросы ленты событий.
type Handler struct {
	service *Service
}

// NewHandler создаёт новый обработчик ленты.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List — GET /api/activity?after=N.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var afterID int64
	if raw := r.URL.Query().Get("after"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 0 {
			httputil.WriteError(w, http.StatusBadRequest, "Invalid cursor")
			return
		}
		afterID = id
	}

	entries, err := h.service.List(r.Context(), afterID)
	if err != nil {
		log.WithError(err).Error("Ошибка получения ленты событий")
		httputil.WriteError(w, http.StatusInternalServerError, "Failed to load activity")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}

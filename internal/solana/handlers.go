// Package solana — handlers.go обрабатывает GET /api/solana-status.
package solana

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/apple-shot/internal/httputil"
)

// Handler обрабатывает HTTP-запросы мониторинга кошелька.
type Handler struct {
	monitor *Monitor
}

// NewHandler создаёт обработчик статуса монитора.
func NewHandler(monitor *Monitor) *Handler {
	return &Handler{monitor: monitor}
}

// Status — GET /api/solana-status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.monitor.Status(r.Context())
	if err != nil {
		log.WithError(err).Error("Ошибка получения статуса монитора")
		httputil.WriteError(w, http.StatusInternalServerError, "Failed to load status")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status)
}

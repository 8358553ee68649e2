// Package season — handlers.go обрабатывает GET /api/ranking, /api/season,
// /api/prize-pool и /api/all-time-stats.
package season

import (
	"errors"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/apple-shot/internal/common"
	"serotonyl.ru/apple-shot/internal/httputil"
)

// Handler обрабатывает HTTP-запросы сезонов и призов.
type Handler struct {
	service *Service
}

// NewHandler создаёт новый обработчик сезонов.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Ranking — GET /api/ranking?season=N (без параметра — активный сезон).
func (h *Handler) Ranking(w http.ResponseWriter, r *http.Request) {
	var seasonID *int64
	if raw := r.URL.Query().Get("season"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			httputil.WriteError(w, http.StatusBadRequest, "Invalid season id")
			return
		}
		seasonID = &id
	}

	payload, err := h.service.Ranking(r.Context(), seasonID)
	if err != nil {
		if errors.Is(err, common.ErrSeasonNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "Season not found")
			return
		}
		log.WithError(err).Error("Ошибка получения рейтинга")
		httputil.WriteError(w, http.StatusInternalServerError, "Failed to load ranking")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, payload)
}

// Info — GET /api/season.
func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Info(r.Context())
	if err != nil {
		log.WithError(err).Error("Ошибка получения информации о сезоне")
		httputil.WriteError(w, http.StatusInternalServerError, "Failed to load season")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, info)
}

// PoolInfo — GET /api/prize-pool.
func (h *Handler) PoolInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.PoolInfo(r.Context())
	if err != nil {
		log.WithError(err).Error("Ошибка получения призового пула")
		httputil.WriteError(w, http.StatusInternalServerError, "Failed to load prize pool")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, info)
}

// AllTime — GET /api/all-time-stats.
func (h *Handler) AllTime(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.AllTime(r.Context())
	if err != nil {
		log.WithError(err).Error("Ошибка получения всевременной статистики")
		httputil.WriteError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

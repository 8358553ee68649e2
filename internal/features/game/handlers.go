// Package game — handlers.go обрабатывает игровые HTTP-эндпоинты:
// старт игры, отправку выстрела, конфигурацию уровней и статистику.
package game

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/apple-shot/internal/common"
	"serotonyl.ru/apple-shot/internal/httputil"
)

// Handler обрабатывает HTTP-запросы игры.
type Handler struct {
	service *Service
}

// NewHandler создаёт новый игровой обработчик.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type startGameRequest struct {
	PlayerID int64 `json:"playerId"`
}

// StartGame — POST /api/start-game.
func (h *Handler) StartGame(w http.ResponseWriter, r *http.Request) {
	var req startGameRequest
	if err := httputil.DecodeJSON(r.Body, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PlayerID <= 0 {
		httputil.WriteError(w, http.StatusBadRequest, "Player ID required")
		return
	}

	result, err := h.service.StartSession(r.Context(), req.PlayerID)
	if err != nil {
		if errors.Is(err, common.ErrPlayerNotFound) {
			httputil.WriteError(w, http.StatusBadRequest, common.ErrPlayerNotFound.Error())
			return
		}
		log.WithError(err).WithField("player_id", req.PlayerID).Error("Ошибка старта игры")
		httputil.WriteError(w, http.StatusInternalServerError, "Failed to start game")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

type submitShotRequest struct {
	SessionID   int64  `json:"sessionId"`
	SessionHash string `json:"sessionHash"`
	Level       int    `json:"level"`
	Hit         bool   `json:"hit"`
	LivesLeft   *int   `json:"livesLeft"`
}

// SubmitShot — POST /api/submit-shot.
// Доменные ошибки машины состояний уходят клиенту как 400 с их текстом.
func (h *Handler) SubmitShot(w http.ResponseWriter, r *http.Request) {
	var req submitShotRequest
	if err := httputil.DecodeJSON(r.Body, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.SessionID <= 0 || req.SessionHash == "" || req.Level <= 0 {
		httputil.WriteError(w, http.StatusBadRequest, "Missing parameters")
		return
	}

	result, err := h.service.SubmitShot(r.Context(), ShotRequest{
		SessionID:   req.SessionID,
		SessionHash: req.SessionHash,
		Level:       req.Level,
		Hit:         req.Hit,
		LivesLeft:   req.LivesLeft,
	})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidSession),
			errors.Is(err, common.ErrSessionCompleted),
			errors.Is(err, common.ErrWrongLevel),
			errors.Is(err, common.ErrTooFast):
			httputil.WriteError(w, http.StatusBadRequest, err.Error())
		default:
			log.WithError(err).WithField("session_id", req.SessionID).Error("Ошибка обработки выстрела")
			httputil.WriteError(w, http.StatusInternalServerError, "Shot submission failed")
		}
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// Level — GET /api/levels/{level}.
func (h *Handler) Level(w http.ResponseWriter, r *http.Request) {
	level, err := strconv.Atoi(mux.Vars(r)["level"])
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, common.ErrInvalidLevel.Error())
		return
	}

	cfg, err := h.service.LevelConfig(r.Context(), level)
	if err != nil {
		if errors.Is(err, common.ErrInvalidLevel) {
			httputil.WriteError(w, http.StatusBadRequest, common.ErrInvalidLevel.Error())
			return
		}
		log.WithError(err).WithField("level", level).Error("Ошибка получения конфигурации уровня")
		httputil.WriteError(w, http.StatusInternalServerError, "Failed to load level")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, cfg)
}

// Session — GET /api/session/{id}.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid session id")
		return
	}

	sess, err := h.service.SessionByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrSessionNotFound) {
			httputil.WriteError(w, http.StatusNotFound, common.ErrSessionNotFound.Error())
			return
		}
		log.WithError(err).WithField("session_id", id).Error("Ошибка чтения сессии")
		httputil.WriteError(w, http.StatusInternalServerError, "Failed to load session")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sess)
}

// LevelStats — GET /api/level-stats.
func (h *Handler) LevelStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.LevelStatsList(r.Context())
	if err != nil {
		log.WithError(err).Error("Ошибка получения статистики уровней")
		httputil.WriteError(w, http.StatusInternalServerError, "Failed to load level stats")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

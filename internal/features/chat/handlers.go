// Package chat — handlers.go обрабатывает GET/POST /api/chat.
package chat

import (
	"errors"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/apple-shot/internal/common"
	"serotonyl.ru/apple-shot/internal/httputil"
)

// Handler обрабатывает HTTP-запросы чата.
type Handler struct {
	service *Service
}

// NewHandler создаёт новый обработчик чата.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List — GET /api/chat?after=N.
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

	msgs, err := h.service.List(r.Context(), afterID)
	if err != nil {
		log.WithError(err).Error("Ошибка получения сообщений чата")
		httputil.WriteError(w, http.StatusInternalServerError, "Failed to load chat")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, msgs)
}

type postMessageRequest struct {
	PlayerID int64  `json:"playerId"`
	Message  string `json:"message"`
}

// Post — POST /api/chat.
func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	var req postMessageRequest
	if err := httputil.DecodeJSON(r.Body, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PlayerID <= 0 {
		httputil.WriteError(w, http.StatusBadRequest, "Player ID required")
		return
	}

	msg, err := h.service.Post(r.Context(), req.PlayerID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrPlayerNotFound):
			httputil.WriteError(w, http.StatusBadRequest, common.ErrPlayerNotFound.Error())
		case errors.Is(err, common.ErrInvalidMessage):
			httputil.WriteError(w, http.StatusBadRequest, common.ErrInvalidMessage.Error())
		default:
			log.WithError(err).Error("Ошибка публикации сообщения")
			httputil.WriteError(w, http.StatusInternalServerError, "Failed to post message")
		}
		return
	}
	httputil.WriteJSON(w, http.StatusOK, msg)
}

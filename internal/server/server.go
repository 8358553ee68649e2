// Package server собирает HTTP-сервер игры: маршруты, цепочку
// middleware и жизненный цикл (старт/останов).
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"serotonyl.ru/apple-shot/internal/config"
	"serotonyl.ru/apple-shot/internal/features/activity"
	"serotonyl.ru/apple-shot/internal/features/chat"
	"serotonyl.ru/apple-shot/internal/features/game"
	"serotonyl.ru/apple-shot/internal/features/players"
	"serotonyl.ru/apple-shot/internal/features/season"
	"serotonyl.ru/apple-shot/internal/httputil"
	"serotonyl.ru/apple-shot/internal/server/middleware"
	"serotonyl.ru/apple-shot/internal/solana"
)

// Handlers — все HTTP-обработчики приложения.
type Handlers struct {
	Players  *players.Handler
	Game     *game.Handler
	Season   *season.Handler
	Chat     *chat.Handler
	Activity *activity.Handler
	Solana   *solana.Handler
}

// Server — HTTP-сервер игры.
type Server struct {
	httpServer *http.Server
	limiter    *middleware.RateLimiter
}

// New собирает сервер: маршруты под /api и цепочку middleware
// recovery → logging → CORS → rate limit.
func New(cfg *config.Config, h Handlers) *Server {
	limiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/register", h.Players.Register).Methods(http.MethodPost)
	api.HandleFunc("/start-game", h.Game.StartGame).Methods(http.MethodPost)
	api.HandleFunc("/submit-shot", h.Game.SubmitShot).Methods(http.MethodPost)
	api.HandleFunc("/levels/{level}", h.Game.Level).Methods(http.MethodGet)
	api.HandleFunc("/session/{id}", h.Game.Session).Methods(http.MethodGet)
	api.HandleFunc("/level-stats", h.Game.LevelStats).Methods(http.MethodGet)
	api.HandleFunc("/ranking", h.Season.Ranking).Methods(http.MethodGet)
	api.HandleFunc("/season", h.Season.Info).Methods(http.MethodGet)
	api.HandleFunc("/prize-pool", h.Season.PoolInfo).Methods(http.MethodGet)
	api.HandleFunc("/all-time-stats", h.Season.AllTime).Methods(http.MethodGet)
	api.HandleFunc("/chat", h.Chat.List).Methods(http.MethodGet)
	api.HandleFunc("/chat", h.Chat.Post).Methods(http.MethodPost)
	api.HandleFunc("/activity", h.Activity.List).Methods(http.MethodGet)
	api.HandleFunc("/solana-status", h.Solana.Status).Methods(http.MethodGet)

	var handler http.Handler = r
	handler = limiter.Middleware(handler)
	handler = middleware.CORS(cfg.AllowedOrigins)(handler)
	handler = middleware.Logger(handler)
	handler = middleware.Recovery(handler)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
			Handler:      handler,
			ReadTimeout:  cfg.HTTPReadTimeout,
			WriteTimeout: cfg.HTTPWriteTimeout,
			IdleTimeout:  60 * time.Second,
		},
		limiter: limiter,
	}
}

// Start запускает сервер и блокируется до его остановки.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown останавливает сервер, дождавшись активных запросов.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Close()
	return s.httpServer.Shutdown(ctx)
}

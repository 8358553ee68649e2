// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт БД-пул, репозитории, сервисы,
// обработчики и собирает всё в сервер, планировщик и монитор.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/apple-shot/internal/config"
	"serotonyl.ru/apple-shot/internal/db/postgres"
	"serotonyl.ru/apple-shot/internal/features/activity"
	"serotonyl.ru/apple-shot/internal/features/chat"
	"serotonyl.ru/apple-shot/internal/features/game"
	"serotonyl.ru/apple-shot/internal/features/players"
	"serotonyl.ru/apple-shot/internal/features/season"
	"serotonyl.ru/apple-shot/internal/jobs"
	"serotonyl.ru/apple-shot/internal/server"
	"serotonyl.ru/apple-shot/internal/solana"
)

// App содержит все компоненты приложения.
type App struct {
	Server    *server.Server
	Scheduler *jobs.Scheduler
	DB        *pgxpool.Pool
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	// Запускаем миграции
	if err := runMigrations(ctx, pool); err != nil {
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 2. Репозитории ===
	playerRepo := players.NewRepository(pool)
	gameRepo := game.NewRepository(pool)
	seasonRepo := season.NewRepository(pool)
	chatRepo := chat.NewRepository(pool)
	activityRepo := activity.NewRepository(pool)
	taxRepo := solana.NewRepository(pool)

	// === 3. Сервисы ===
	activityService := activity.NewService(activityRepo)
	playerService := players.NewService(playerRepo)
	seasonService := season.NewService(seasonRepo, activityService, cfg)
	gameService := game.NewService(gameRepo, seasonService, playerService, activityService, cfg)
	chatService := chat.NewService(chatRepo, playerService)

	// === 4. Монитор кошелька ===
	monitor, err := solana.NewMonitor(cfg.SolanaDevWallet, cfg.SolanaRPC, taxRepo)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания монитора: %w", err)
	}
	if monitor.Enabled() {
		log.WithField("wallet", cfg.SolanaDevWallet).Info("Мониторинг кошелька включён")
	} else {
		log.Info("Мониторинг кошелька выключен (кошелёк не задан)")
	}

	// === 5. Стартовое состояние игры ===
	if err := gameRepo.SeedLevels(ctx, cfg.GameTotalLevels); err != nil {
		return nil, fmt.Errorf("ошибка засева уровней: %w", err)
	}
	if _, err := seasonRepo.Active(ctx); err != nil {
		return nil, fmt.Errorf("ошибка создания сезона: %w", err)
	}

	// === 6. Обработчики и сервер ===
	srv := server.New(cfg, server.Handlers{
		Players:  players.NewHandler(playerService),
		Game:     game.NewHandler(gameService),
		Season:   season.NewHandler(seasonService),
		Chat:     chat.NewHandler(chatService),
		Activity: activity.NewHandler(activityService),
		Solana:   solana.NewHandler(monitor),
	})

	// === 7. Планировщик задач ===
	scheduler := jobs.NewScheduler(monitor, seasonService, cfg.SolanaPollInterval)

	return &App{
		Server:    srv,
		Scheduler: scheduler,
		DB:        pool,
	}, nil
}

// runMigrations выполняет все SQL-миграции.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	// Инициализируем систему миграций
	if err := postgres.EnsureMigrationsTable(ctx, pool); err != nil {
		return err
	}

	// Выполняем миграции по порядку
	migrations := []struct {
		version int
		sql     string
	}{
		{1, migration001Players},
		{2, migration002Seasons},
		{3, migration003GameSessions},
		{4, migration004Winners},
		{5, migration005GlobalStats},
		{6, migration006ChatActivity},
		{7, migration007TaxLog},
	}

	for _, m := range migrations {
		if err := postgres.ExecMigrationSQL(ctx, pool, m.version, m.sql); err != nil {
			return fmt.Errorf("миграция %d: %w", m.version, err)
		}
		log.Infof("Миграция %d применена", m.version)
	}

	return nil
}

// SQL-миграции встроены в код для упрощения деплоя.

var migration001Players = `
CREATE TABLE IF NOT EXISTS players (
    id BIGSERIAL PRIMARY KEY,
    username VARCHAR(20) UNIQUE NOT NULL,
    wallet_address VARCHAR(64) DEFAULT '',
    created_at TIMESTAMPTZ DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_players_username ON players(username);
`

var migration002Seasons = `
CREATE TABLE IF NOT EXISTS seasons (
    id BIGSERIAL PRIMARY KEY,
    status VARCHAR(16) NOT NULL DEFAULT 'active',
    prize_pool DOUBLE PRECISION DEFAULT 0,
    burn_pool DOUBLE PRECISION DEFAULT 0,
    total_fees DOUBLE PRECISION DEFAULT 0,
    total_completions INTEGER DEFAULT 0,
    started_at TIMESTAMPTZ DEFAULT NOW(),
    finished_at TIMESTAMPTZ
);
-- Ровно один активный сезон
CREATE UNIQUE INDEX IF NOT EXISTS idx_seasons_one_active ON seasons(status) WHERE status = 'active';
`

var migration003GameSessions = `
CREATE TABLE IF NOT EXISTS game_sessions (
    id BIGSERIAL PRIMARY KEY,
    player_id BIGINT NOT NULL REFERENCES players(id),
    season_id BIGINT NOT NULL REFERENCES seasons(id),
    current_level INTEGER DEFAULT 1,
    total_shots INTEGER DEFAULT 0,
    total_hits INTEGER DEFAULT 0,
    total_misses INTEGER DEFAULT 0,
    started_at TIMESTAMPTZ DEFAULT NOW(),
    finished_at TIMESTAMPTZ,
    completed BOOLEAN DEFAULT FALSE,
    fee_paid DOUBLE PRECISION DEFAULT 0,
    session_hash VARCHAR(64) NOT NULL,
    last_shot_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_game_sessions_player ON game_sessions(player_id);
CREATE INDEX IF NOT EXISTS idx_game_sessions_season ON game_sessions(season_id);
CREATE INDEX IF NOT EXISTS idx_game_sessions_ranking ON game_sessions(season_id, current_level DESC, total_hits DESC);
`

var migration004Winners = `
CREATE TABLE IF NOT EXISTS winners (
    id BIGSERIAL PRIMARY KEY,
    season_id BIGINT NOT NULL REFERENCES seasons(id),
    player_id BIGINT NOT NULL REFERENCES players(id),
    session_id BIGINT NOT NULL REFERENCES game_sessions(id),
    position INTEGER NOT NULL,
    prize_amount DOUBLE PRECISION NOT NULL,
    awarded_at TIMESTAMPTZ DEFAULT NOW(),
    UNIQUE(season_id, position)
);
CREATE INDEX IF NOT EXISTS idx_winners_season ON winners(season_id);
CREATE TABLE IF NOT EXISTS burn_log (
    id BIGSERIAL PRIMARY KEY,
    season_id BIGINT NOT NULL REFERENCES seasons(id),
    amount DOUBLE PRECISION NOT NULL,
    trigger_completions INTEGER NOT NULL,
    created_at TIMESTAMPTZ DEFAULT NOW()
);
`

var migration005GlobalStats = `
CREATE TABLE IF NOT EXISTS global_stats (
    level INTEGER PRIMARY KEY,
    total_attempts INTEGER DEFAULT 0,
    total_successes INTEGER DEFAULT 0,
    success_rate DOUBLE PRECISION DEFAULT 0.5
);
`

var migration006ChatActivity = `
CREATE TABLE IF NOT EXISTS chat_messages (
    id BIGSERIAL PRIMARY KEY,
    player_id BIGINT NOT NULL REFERENCES players(id),
    username VARCHAR(20) NOT NULL,
    message VARCHAR(200) NOT NULL,
    created_at TIMESTAMPTZ DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS activity_log (
    id BIGSERIAL PRIMARY KEY,
    type VARCHAR(16) NOT NULL,
    player_name VARCHAR(20) NOT NULL,
    level INTEGER DEFAULT 0,
    detail TEXT DEFAULT '',
    created_at TIMESTAMPTZ DEFAULT NOW()
);
`

var migration007TaxLog = `
CREATE TABLE IF NOT EXISTS tax_log (
    id BIGSERIAL PRIMARY KEY,
    signature VARCHAR(128) UNIQUE NOT NULL,
    amount DOUBLE PRECISION NOT NULL,
    created_at TIMESTAMPTZ DEFAULT NOW()
);
`

// Package game — repository.go выполняет операции с таблицами
// game_sessions и global_stats.
//
// Ключевой приём: продвижение уровня и фиксация промаха — это
// guarded UPDATE с проверкой current_level и терминальных флагов
// прямо в WHERE. Две одновременные отправки одного выстрела не могут
// продвинуть уровень дважды: вторая не найдёт строку и получит
// RowsAffected()==0.
package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/apple-shot/internal/common"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const sessionColumns = `id, player_id, season_id, current_level, total_shots, total_hits,
	total_misses, started_at, finished_at, completed, fee_paid, session_hash, last_shot_at`

func scanSession(row pgx.Row) (*Session, error) {
	var s Session
	err := row.Scan(
		&s.ID, &s.PlayerID, &s.SeasonID, &s.CurrentLevel, &s.TotalShots, &s.TotalHits,
		&s.TotalMisses, &s.StartedAt, &s.FinishedAt, &s.Completed, &s.FeePaid,
		&s.SessionHash, &s.LastShotAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSession создаёт сессию на первом уровне и зачисляет комиссию
// в пулы активного сезона. Вставка и денежный UPDATE идут одной
// транзакцией: либо есть и сессия, и деньги в пулах, либо ничего.
func (r *Repository) CreateSession(ctx context.Context, playerID, seasonID int64, fee, prizeAdd, burnAdd float64, sessionHash string) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO game_sessions (player_id, season_id, fee_paid, session_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, playerID, seasonID, fee, sessionHash).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания сессии: %w", err)
	}

	ct, err := tx.Exec(ctx, `
		UPDATE seasons
		SET prize_pool = prize_pool + $2,
		    burn_pool = burn_pool + $3,
		    total_fees = total_fees + $4
		WHERE id = $1 AND status = 'active'
	`, seasonID, prizeAdd, burnAdd, fee)
	if err != nil {
		return 0, fmt.Errorf("ошибка зачисления комиссии: %w", err)
	}
	if ct.RowsAffected() == 0 {
		// Сезон закрылся между чтением и вставкой — откатываем всё
		return 0, common.ErrNoActiveSeason
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("ошибка фиксации создания сессии: %w", err)
	}
	return id, nil
}

// GetByIDAndHash ищет сессию по паре (id, session_hash).
// Хэш — capability: без него common.ErrInvalidSession, и неважно,
// существует сессия или нет.
func (r *Repository) GetByIDAndHash(ctx context.Context, id int64, sessionHash string) (*Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM game_sessions WHERE id = $1 AND session_hash = $2`
	s, err := scanSession(r.db.QueryRow(ctx, query, id, sessionHash))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrInvalidSession
		}
		return nil, fmt.Errorf("ошибка чтения сессии (id=%d): %w", id, err)
	}
	return s, nil
}

// GetByID возвращает сессию по id (для GET /api/session/:id).
func (r *Repository) GetByID(ctx context.Context, id int64) (*Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM game_sessions WHERE id = $1`
	s, err := scanSession(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrSessionNotFound
		}
		return nil, fmt.Errorf("ошибка чтения сессии (id=%d): %w", id, err)
	}
	return s, nil
}

// AdvanceLevel фиксирует попадание: +1 к уровню (или completed на
// последнем), счётчики, отметка времени выстрела.
// Возвращает false, если строка не подошла под guard — сессию уже
// продвинул/завершил конкурирующий запрос.
func (r *Repository) AdvanceLevel(ctx context.Context, sessionID int64, fromLevel int, complete bool) (bool, error) {
	query := `
		UPDATE game_sessions SET
			current_level = CASE WHEN $3 THEN current_level ELSE current_level + 1 END,
			total_shots = total_shots + 1,
			total_hits = total_hits + 1,
			last_shot_at = NOW(),
			completed = $3,
			finished_at = CASE WHEN $3 THEN NOW() ELSE finished_at END
		WHERE id = $1 AND current_level = $2 AND completed = FALSE AND finished_at IS NULL
	`
	ct, err := r.db.Exec(ctx, query, sessionID, fromLevel, complete)
	if err != nil {
		return false, fmt.Errorf("ошибка продвижения уровня: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

// RecordMiss фиксирует промах. terminal=true завершает сессию
// (finished_at), иначе игрок остаётся на том же уровне.
func (r *Repository) RecordMiss(ctx context.Context, sessionID int64, fromLevel int, terminal bool) (bool, error) {
	query := `
		UPDATE game_sessions SET
			total_shots = total_shots + 1,
			total_misses = total_misses + 1,
			last_shot_at = NOW(),
			finished_at = CASE WHEN $3 THEN NOW() ELSE finished_at END
		WHERE id = $1 AND current_level = $2 AND completed = FALSE AND finished_at IS NULL
	`
	ct, err := r.db.Exec(ctx, query, sessionID, fromLevel, terminal)
	if err != nil {
		return false, fmt.Errorf("ошибка фиксации промаха: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

// BumpLevelStats обновляет глобальную статистику уровня одним запросом:
// попытки, успехи и пересчитанный success_rate (простое отношение,
// без сглаживания).
func (r *Repository) BumpLevelStats(ctx context.Context, level int, hit bool) error {
	hitInc := 0
	if hit {
		hitInc = 1
	}
	query := `
		UPDATE global_stats SET
			total_attempts = total_attempts + 1,
			total_successes = total_successes + $2,
			success_rate = (total_successes + $2)::DOUBLE PRECISION / (total_attempts + 1)
		WHERE level = $1
	`
	if _, err := r.db.Exec(ctx, query, level, hitInc); err != nil {
		return fmt.Errorf("ошибка обновления статистики уровня: %w", err)
	}
	return nil
}

// GetLevelStats возвращает статистику уровня или nil, если строки нет
// (до засева базы).
func (r *Repository) GetLevelStats(ctx context.Context, level int) (*LevelStats, error) {
	query := `
		SELECT level, total_attempts, total_successes, success_rate
		FROM global_stats
		WHERE level = $1
	`
	var s LevelStats
	err := r.db.QueryRow(ctx, query, level).Scan(
		&s.Level, &s.TotalAttempts, &s.TotalSuccesses, &s.SuccessRate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка чтения статистики уровня %d: %w", level, err)
	}
	return &s, nil
}

// ListLevelStats возвращает статистику всех уровней по возрастанию.
func (r *Repository) ListLevelStats(ctx context.Context) ([]*LevelStats, error) {
	query := `
		SELECT level, total_attempts, total_successes, success_rate
		FROM global_stats
		ORDER BY level ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса статистики уровней: %w", err)
	}
	defer rows.Close()

	var out []*LevelStats
	for rows.Next() {
		var s LevelStats
		if err := rows.Scan(&s.Level, &s.TotalAttempts, &s.TotalSuccesses, &s.SuccessRate); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения строк: %w", err)
	}
	return out, nil
}

// SeedLevels засеивает global_stats строками для уровней 1..total
// со стартовым success_rate 0.5. Повторный засев безопасен.
func (r *Repository) SeedLevels(ctx context.Context, total int) error {
	query := `
		INSERT INTO global_stats (level, total_attempts, total_successes, success_rate)
		SELECT lvl, 0, 0, 0.5 FROM generate_series(1, $1) AS lvl
		ON CONFLICT (level) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, total); err != nil {
		return fmt.Errorf("ошибка засева статистики уровней: %w", err)
	}
	return nil
}

// Package season — repository.go выполняет операции с таблицами seasons,
// winners и burn_log. Все денежные операции выполняются в транзакциях БД:
// строка сезона блокируется FOR UPDATE, чтобы два одновременных
// прохождения не разыграли одно призовое место дважды.
package season

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

const seasonColumns = `id, status, prize_pool, burn_pool, total_fees, total_completions, started_at, finished_at`

func scanSeason(row pgx.Row) (*Season, error) {
	var s Season
	err := row.Scan(
		&s.ID, &s.Status, &s.PrizePool, &s.BurnPool,
		&s.TotalFees, &s.TotalCompletions, &s.StartedAt, &s.FinishedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Active возвращает активный сезон, создавая его при отсутствии.
// Инвариант "ровно один активный сезон" держит частичный уникальный
// индекс: проигравшая гонку вставка падает на конфликте и перечитывает.
func (r *Repository) Active(ctx context.Context) (*Season, error) {
	query := `SELECT ` + seasonColumns + ` FROM seasons WHERE status = 'active' LIMIT 1`
	s, err := scanSeason(r.db.QueryRow(ctx, query))
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("ошибка чтения активного сезона: %w", err)
	}

	// Сезона нет — создаём (ON CONFLICT: кто-то успел раньше)
	_, err = r.db.Exec(ctx, `
		INSERT INTO seasons (status) VALUES ('active')
		ON CONFLICT (status) WHERE status = 'active' DO NOTHING
	`)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания сезона: %w", err)
	}

	s, err = scanSeason(r.db.QueryRow(ctx, query))
	if err != nil {
		return nil, fmt.Errorf("ошибка перечитывания сезона: %w", err)
	}
	return s, nil
}

// GetByID возвращает сезон по id. Если не найден — common.ErrSeasonNotFound.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Season, error) {
	query := `SELECT ` + seasonColumns + ` FROM seasons WHERE id = $1`
	s, err := scanSeason(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrSeasonNotFound
		}
		return nil, fmt.Errorf("ошибка чтения сезона (id=%d): %w", id, err)
	}
	return s, nil
}

// IncrementCompletions увеличивает счётчик прохождений сезона
// и возвращает новое значение.
func (r *Repository) IncrementCompletions(ctx context.Context, seasonID int64) (int, error) {
	query := `
		UPDATE seasons SET total_completions = total_completions + 1
		WHERE id = $1
		RETURNING total_completions
	`
	var completions int
	if err := r.db.QueryRow(ctx, query, seasonID).Scan(&completions); err != nil {
		return 0, fmt.Errorf("ошибка инкремента прохождений: %w", err)
	}
	return completions, nil
}

// AwardNextPosition разыгрывает следующее незанятое призовое место.
// Вся логика идёт в одной транзакции с блокировкой строки сезона:
// читаем пул, считаем победителей, вставляем запись. Если все места
// заняты — возвращает nil без ошибки (идемпотентность при гонках
// страхуется ещё и UNIQUE(season_id, position)).
func (r *Repository) AwardNextPosition(ctx context.Context, seasonID, playerID, sessionID int64, pcts []float64, maxWinners int) (*Award, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var prizePool float64
	err = tx.QueryRow(ctx,
		`SELECT prize_pool FROM seasons WHERE id = $1 FOR UPDATE`, seasonID,
	).Scan(&prizePool)
	if err != nil {
		return nil, fmt.Errorf("ошибка блокировки сезона: %w", err)
	}

	var count int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM winners WHERE season_id = $1`, seasonID,
	).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчёта победителей: %w", err)
	}
	if count >= maxWinners {
		// Все места разыграны — прохождение без приза
		return nil, tx.Commit(ctx)
	}

	position := count + 1
	prize := PrizeForPosition(prizePool, pcts, position)

	_, err = tx.Exec(ctx, `
		INSERT INTO winners (season_id, player_id, session_id, position, prize_amount)
		VALUES ($1, $2, $3, $4, $5)
	`, seasonID, playerID, sessionID, position, prize)
	if err != nil {
		return nil, fmt.Errorf("ошибка записи победителя: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка фиксации награждения: %w", err)
	}
	return &Award{Position: position, Prize: prize}, nil
}

// EndSeason закрывает сезон и открывает новый с переносом остатка пула.
// Остаток = prize_pool минус сумма выданных призов (не меньше нуля).
func (r *Repository) EndSeason(ctx context.Context, seasonID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var prizePool float64
	err = tx.QueryRow(ctx,
		`SELECT prize_pool FROM seasons WHERE id = $1 FOR UPDATE`, seasonID,
	).Scan(&prizePool)
	if err != nil {
		return fmt.Errorf("ошибка блокировки сезона: %w", err)
	}

	var totalPrizes float64
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(prize_amount), 0) FROM winners WHERE season_id = $1`, seasonID,
	).Scan(&totalPrizes)
	if err != nil {
		return fmt.Errorf("ошибка суммирования призов: %w", err)
	}

	carryOver := CarryOver(prizePool, totalPrizes)

	_, err = tx.Exec(ctx, `
		UPDATE seasons SET status = 'finished', finished_at = NOW()
		WHERE id = $1
	`, seasonID)
	if err != nil {
		return fmt.Errorf("ошибка закрытия сезона: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO seasons (status, prize_pool) VALUES ('active', $1)
	`, carryOver)
	if err != nil {
		return fmt.Errorf("ошибка открытия нового сезона: %w", err)
	}

	return tx.Commit(ctx)
}

// FlushBurnIfDue сбрасывает burn-пул в журнал сжигания, если счётчик
// прохождений кратен триггеру и пул положителен. Проверка и сброс идут
// в одной транзакции, чтобы один триггер не сжёг пул дважды.
func (r *Repository) FlushBurnIfDue(ctx context.Context, seasonID int64, trigger int) (*BurnFlush, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var burnPool float64
	var completions int
	err = tx.QueryRow(ctx,
		`SELECT burn_pool, total_completions FROM seasons WHERE id = $1 FOR UPDATE`, seasonID,
	).Scan(&burnPool, &completions)
	if err != nil {
		return nil, fmt.Errorf("ошибка блокировки сезона: %w", err)
	}

	if completions%trigger != 0 || burnPool <= 0 {
		return nil, tx.Commit(ctx)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO burn_log (season_id, amount, trigger_completions)
		VALUES ($1, $2, $3)
	`, seasonID, burnPool, completions)
	if err != nil {
		return nil, fmt.Errorf("ошибка записи в burn_log: %w", err)
	}

	_, err = tx.Exec(ctx, `UPDATE seasons SET burn_pool = 0 WHERE id = $1`, seasonID)
	if err != nil {
		return nil, fmt.Errorf("ошибка обнуления burn-пула: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка фиксации сжигания: %w", err)
	}
	return &BurnFlush{Amount: burnPool, TriggerCompletions: completions}, nil
}

// WinnerCount возвращает количество победителей сезона.
func (r *Repository) WinnerCount(ctx context.Context, seasonID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM winners WHERE season_id = $1`, seasonID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта победителей: %w", err)
	}
	return count, nil
}

// Winners возвращает победителей сезона по местам.
func (r *Repository) Winners(ctx context.Context, seasonID int64) ([]*Winner, error) {
	query := `
		SELECT w.id, w.season_id, w.player_id, w.session_id, w.position,
		       w.prize_amount, w.awarded_at, p.username
		FROM winners w
		JOIN players p ON p.id = w.player_id
		WHERE w.season_id = $1
		ORDER BY w.position ASC
	`
	return r.queryWinners(ctx, query, seasonID)
}

// RecentWinners возвращает последние награждения за всю историю.
func (r *Repository) RecentWinners(ctx context.Context, limit int) ([]*Winner, error) {
	query := `
		SELECT w.id, w.season_id, w.player_id, w.session_id, w.position,
		       w.prize_amount, w.awarded_at, p.username
		FROM winners w
		JOIN players p ON p.id = w.player_id
		ORDER BY w.awarded_at DESC
		LIMIT $1
	`
	return r.queryWinners(ctx, query, limit)
}

func (r *Repository) queryWinners(ctx context.Context, query string, args ...interface{}) ([]*Winner, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса победителей: %w", err)
	}
	defer rows.Close()

	var out []*Winner
	for rows.Next() {
		var w Winner
		if err := rows.Scan(
			&w.ID, &w.SeasonID, &w.PlayerID, &w.SessionID,
			&w.Position, &w.PrizeAmount, &w.AwardedAt, &w.Username,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		out = append(out, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения строк: %w", err)
	}
	return out, nil
}

// Ranking возвращает сезонный рейтинг: выше уровень — выше место,
// при равенстве — больше попаданий, потом кто раньше начал.
func (r *Repository) Ranking(ctx context.Context, seasonID int64, limit int) ([]*RankingEntry, error) {
	query := `
		SELECT gs.id, p.username, gs.current_level, gs.total_shots, gs.total_hits,
		       gs.total_misses, gs.completed, gs.started_at, gs.finished_at,
		       CASE WHEN gs.total_shots > 0
		            THEN ROUND(gs.total_hits::NUMERIC / gs.total_shots * 100, 1)
		            ELSE 0 END
		FROM game_sessions gs
		JOIN players p ON p.id = gs.player_id
		WHERE gs.season_id = $1
		ORDER BY gs.current_level DESC, gs.total_hits DESC, gs.started_at ASC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, seasonID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса рейтинга: %w", err)
	}
	defer rows.Close()

	var out []*RankingEntry
	for rows.Next() {
		var e RankingEntry
		if err := rows.Scan(
			&e.SessionID, &e.Username, &e.CurrentLevel, &e.TotalShots, &e.TotalHits,
			&e.TotalMisses, &e.Completed, &e.StartedAt, &e.FinishedAt, &e.Accuracy,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения строк: %w", err)
	}
	return out, nil
}

// TotalPlayers возвращает число уникальных игроков сезона.
func (r *Repository) TotalPlayers(ctx context.Context, seasonID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(DISTINCT player_id) FROM game_sessions WHERE season_id = $1`, seasonID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта игроков: %w", err)
	}
	return count, nil
}

// TotalBurned возвращает сумму всех сжиганий сезона.
func (r *Repository) TotalBurned(ctx context.Context, seasonID int64) (float64, error) {
	var total float64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM burn_log WHERE season_id = $1`, seasonID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("ошибка суммирования burn_log: %w", err)
	}
	return total, nil
}

// TopPlayers возвращает всевременной топ по лучшему уровню и числу прохождений.
func (r *Repository) TopPlayers(ctx context.Context, limit int) ([]*TopPlayer, error) {
	query := `
		SELECT p.username,
		       COUNT(gs.id),
		       MAX(gs.current_level),
		       COUNT(*) FILTER (WHERE gs.completed),
		       COALESCE(ROUND(AVG(gs.total_hits::NUMERIC / NULLIF(gs.total_shots, 0) * 100), 1), 0)
		FROM players p
		JOIN game_sessions gs ON gs.player_id = p.id
		GROUP BY p.id
		ORDER BY MAX(gs.current_level) DESC, COUNT(*) FILTER (WHERE gs.completed) DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса топа игроков: %w", err)
	}
	defer rows.Close()

	var out []*TopPlayer
	for rows.Next() {
		var t TopPlayer
		if err := rows.Scan(
			&t.Username, &t.TotalGames, &t.BestLevel, &t.TotalCompletions, &t.AvgAccuracy,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения строк: %w", err)
	}
	return out, nil
}

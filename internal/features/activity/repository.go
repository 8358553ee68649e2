// Package activity — repository.go выполняет операции с таблицей activity_log.
package activity

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const fetchLimit = 30

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Insert записывает событие в ленту.
func (r *Repository) Insert(ctx context.Context, entryType, playerName string, level int, detail string) error {
	query := `
		INSERT INTO activity_log (type, player_name, level, detail)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.db.Exec(ctx, query, entryType, playerName, level, detail); err != nil {
		return fmt.Errorf("ошибка записи события: %w", err)
	}
	return nil
}

// ListAfter возвращает до 30 последних событий с id строго больше курсора,
// новые первыми. Порядок разворачивает сервис.
func (r *Repository) ListAfter(ctx context.Context, afterID int64) ([]*Entry, error) {
	query := `
		SELECT id, type, player_name, level, detail, created_at
		FROM activity_log
		WHERE id > $1
		ORDER BY id DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, afterID, fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса событий: %w", err)
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Type, &e.PlayerName, &e.Level, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения строк: %w", err)
	}
	return out, nil
}

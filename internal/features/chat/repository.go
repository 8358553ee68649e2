// Package chat — repository.go выполняет операции с таблицей chat_messages.
package chat

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const fetchLimit = 50

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Insert сохраняет сообщение и возвращает его id.
func (r *Repository) Insert(ctx context.Context, playerID int64, username, message string) (int64, error) {
	query := `
		INSERT INTO chat_messages (player_id, username, message)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	var id int64
	if err := r.db.QueryRow(ctx, query, playerID, username, message).Scan(&id); err != nil {
		return 0, fmt.Errorf("ошибка сохранения сообщения: %w", err)
	}
	return id, nil
}

// ListAfter возвращает до 50 последних сообщений с id строго больше
// курсора. Выборка по убыванию id: при переполнении теряются старые
// сообщения, а не новые. Порядок разворачивает сервис.
func (r *Repository) ListAfter(ctx context.Context, afterID int64) ([]*ChatMessage, error) {
	query := `
		SELECT id, player_id, username, message, created_at
		FROM chat_messages
		WHERE id > $1
		ORDER BY id DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, afterID, fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса сообщений: %w", err)
	}
	defer rows.Close()

	var out []*ChatMessage
	for rows.Next() {
		var m ChatMessage
		if err := rows.Scan(&m.ID, &m.PlayerID, &m.Username, &m.Message, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения строк: %w", err)
	}
	return out, nil
}

// Package players — repository.go отвечает за все операции с таблицей players в БД.
// Каждая функция выполняет один SQL-запрос и возвращает результат или ошибку.
package players

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

// Create добавляет нового игрока и возвращает созданную запись.
// При гонке за уникальное имя вернётся ошибка с кодом 23505 —
// сервис перехватывает её и перечитывает существующую запись.
func (r *Repository) Create(ctx context.Context, username, walletAddress string) (*Player, error) {
	query := `
		INSERT INTO players (username, wallet_address)
		VALUES ($1, $2)
		RETURNING id, username, wallet_address, created_at
	`
	var p Player
	err := r.db.QueryRow(ctx, query, username, walletAddress).Scan(
		&p.ID, &p.Username, &p.WalletAddress, &p.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания игрока: %w", err)
	}
	return &p, nil
}

// GetByUsername возвращает игрока по имени.
// Если не найден — common.ErrPlayerNotFound.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*Player, error) {
	query := `
		SELECT id, username, wallet_address, created_at
		FROM players
		WHERE username = $1
	`
	var p Player
	err := r.db.QueryRow(ctx, query, username).Scan(
		&p.ID, &p.Username, &p.WalletAddress, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("ошибка чтения игрока (username=%s): %w", username, err)
	}
	return &p, nil
}

// GetByID возвращает игрока по id. Если не найден — common.ErrPlayerNotFound.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Player, error) {
	query := `
		SELECT id, username, wallet_address, created_at
		FROM players
		WHERE id = $1
	`
	var p Player
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Username, &p.WalletAddress, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("ошибка чтения игрока (id=%d): %w", id, err)
	}
	return &p, nil
}

// UpdateWallet обновляет адрес кошелька игрока.
func (r *Repository) UpdateWallet(ctx context.Context, id int64, walletAddress string) error {
	query := `UPDATE players SET wallet_address = $2 WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id, walletAddress); err != nil {
		return fmt.Errorf("ошибка обновления кошелька: %w", err)
	}
	return nil
}

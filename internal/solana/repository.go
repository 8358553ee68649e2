// Package solana — repository.go выполняет операции с таблицей tax_log.
package solana

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// RecordTax фиксирует входящий перевод на кошелёк. Повторная запись
// той же подписи молча игнорируется — поллинг может пересекаться.
func (r *Repository) RecordTax(ctx context.Context, signature string, amount float64) error {
	query := `
		INSERT INTO tax_log (signature, amount)
		VALUES ($1, $2)
		ON CONFLICT (signature) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, signature, amount); err != nil {
		return fmt.Errorf("ошибка записи перевода: %w", err)
	}
	return nil
}

// SumTaxes возвращает суммарный зафиксированный приток в SOL.
func (r *Repository) SumTaxes(ctx context.Context) (float64, error) {
	var total float64
	query := `SELECT COALESCE(SUM(amount), 0) FROM tax_log`
	if err := r.db.QueryRow(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("ошибка суммирования переводов: %w", err)
	}
	return total, nil
}

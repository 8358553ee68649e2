// Package postgres — queries.go реализует прогон встроенных миграций.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ExecMigrationSQL применяет миграцию с данным номером, если она ещё
// не применялась. Захват номера и сам SQL идут в одной транзакции:
// вставка в schema_migrations с ON CONFLICT DO NOTHING служит замком —
// кто не вставил строку, тот миграцию не выполняет. Упавший SQL
// откатывает и запись о версии.
func ExecMigrationSQL(ctx context.Context, pool *pgxpool.Pool, version int, sql string) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	ct, err := tx.Exec(ctx,
		"INSERT INTO schema_migrations (version) VALUES ($1) ON CONFLICT (version) DO NOTHING",
		version,
	)
	if err != nil {
		return fmt.Errorf("ошибка захвата версии миграции %d: %w", version, err)
	}
	if ct.RowsAffected() == 0 {
		// Версия уже в таблице — миграция применена ранее
		return tx.Commit(ctx)
	}

	if _, err := tx.Exec(ctx, sql); err != nil {
		return fmt.Errorf("ошибка выполнения миграции %d: %w", version, err)
	}

	return tx.Commit(ctx)
}

// Package players управляет игроками: регистрацией и кошельками для выплат.
// models.go описывает структуры данных для работы с таблицей players.
package players

import "time"

// Player представляет игрока в базе данных.
// Имя уникально и неизменно после создания; кошелёк можно обновить
// при повторной регистрации (игрок привязал Solana-кошелёк позже).
type Player struct {
	ID            int64     `db:"id" json:"id"`                         // Автоинкрементный ID
	Username      string    `db:"username" json:"username"`             // Уникальное имя (2-20 символов)
	WalletAddress string    `db:"wallet_address" json:"wallet_address"` // Solana-адрес для выплат (может быть пустым)
	CreatedAt     time.Time `db:"created_at" json:"created_at"`         // Когда зарегистрировался
}

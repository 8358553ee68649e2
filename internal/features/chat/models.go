// Package chat реализует внутриигровой чат: короткие сообщения
// с курсорной подгрузкой новых.
package chat

import "time"

// ChatMessage — одно сообщение чата.
type ChatMessage struct {
	ID        int64     `db:"id" json:"id"`
	PlayerID  int64     `db:"player_id" json:"player_id"`
	Username  string    `db:"username" json:"username"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

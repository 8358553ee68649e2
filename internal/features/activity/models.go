// Package activity реализует ленту игровых событий: попадания, промахи,
// прохождения. Лента некритична — её отказ не влияет на игру.
package activity

import "time"

// Entry — одно событие ленты.
type Entry struct {
	ID         int64     `db:"id" json:"id"`
	Type       string    `db:"type" json:"type"` // "hit" | "miss" | "complete"
	PlayerName string    `db:"player_name" json:"player_name"`
	Level      int       `db:"level" json:"level"`
	Detail     string    `db:"detail" json:"detail"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

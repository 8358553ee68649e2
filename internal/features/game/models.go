// Package game реализует ядро Apple Shot: игровые сессии, машину
// состояний выстрелов, кривые сложности уровней и глобальную
// статистику попаданий.
// models.go описывает все структуры данных игры.
package game

import "time"

// Session — одно прохождение игры.
// Принадлежит ровно одному игроку и одному сезону. Терминальные
// состояния: completed=true (прошёл все уровни) или finished_at
// установлен при completed=false (проиграл). После любого из них
// выстрелы не принимаются.
type Session struct {
	ID           int64      `db:"id" json:"id"`
	PlayerID     int64      `db:"player_id" json:"player_id"`
	SeasonID     int64      `db:"season_id" json:"season_id"`
	CurrentLevel int        `db:"current_level" json:"current_level"`
	TotalShots   int        `db:"total_shots" json:"total_shots"`
	TotalHits    int        `db:"total_hits" json:"total_hits"`
	TotalMisses  int        `db:"total_misses" json:"total_misses"`
	StartedAt    time.Time  `db:"started_at" json:"started_at"`
	FinishedAt   *time.Time `db:"finished_at" json:"finished_at"`
	Completed    bool       `db:"completed" json:"completed"`
	FeePaid      float64    `db:"fee_paid" json:"fee_paid"`
	// Session hash — capability для отправки выстрелов.
	// Наружу не отдаём: зная его, можно играть за чужую сессию.
	SessionHash string     `db:"session_hash" json:"-"`
	LastShotAt  *time.Time `db:"last_shot_at" json:"last_shot_at"`
}

// LevelStats — глобальная статистика уровня (таблица global_stats).
// Одна строка на уровень, засеивается при старте сервера.
type LevelStats struct {
	Level          int     `db:"level" json:"level"`
	TotalAttempts  int     `db:"total_attempts" json:"total_attempts"`
	TotalSuccesses int     `db:"total_successes" json:"total_successes"`
	SuccessRate    float64 `db:"success_rate" json:"success_rate"` // в [0, 1]
}

// LevelConfig — параметры уровня, которые клиент использует для
// отрисовки и физики. Явная структура вместо динамического слияния
// объектов: каждый параметр — именованное поле.
type LevelConfig struct {
	Level           int     `json:"level"`
	TargetSize      int     `json:"targetSize"`     // Диаметр яблока в px (меньше = сложнее)
	Distance        int     `json:"distance"`       // Дистанция до цели в px
	WindSpeed       float64 `json:"windSpeed"`      // Сила ветра
	HasWind         bool    `json:"hasWind"`        // Ветер с 3 уровня
	TargetMovement  bool    `json:"targetMovement"` // Движение цели с 8 уровня
	MovementSpeed   float64 `json:"movementSpeed"`
	HasObstacles    bool    `json:"hasObstacles"` // Препятствия с 15 уровня
	ObstacleCount   int     `json:"obstacleCount"`
	TimeLimit       int     `json:"timeLimit"` // Лимит времени в мс с 22 уровня (0 = без лимита)
	ArrowSpeed      float64 `json:"arrowSpeed"`
	WindVariation   bool    `json:"windVariation"`   // Ветер меняется в полёте с 28 уровня
	MovingObstacles bool    `json:"movingObstacles"` // Движущиеся препятствия с 30 уровня

	// Заполняются при применении глобальной подстройки сложности
	SuccessRate   float64 `json:"successRate"`
	TotalAttempts int     `json:"totalAttempts"`
}

// StartResult — ответ POST /api/start-game.
type StartResult struct {
	SessionID   int64   `json:"sessionId"`
	SessionHash string  `json:"sessionHash"`
	SeasonID    int64   `json:"seasonId"`
	Fee         float64 `json:"fee"`
}

// ShotRequest — разобранное тело POST /api/submit-shot.
// LivesLeft опционален: если клиент его не шлёт, промах сразу
// завершает игру (строгий режим).
type ShotRequest struct {
	SessionID   int64
	SessionHash string
	Level       int
	Hit         bool
	LivesLeft   *int
}

// ShotResult — ответ POST /api/submit-shot.
// Доменные ошибки сюда не попадают — они возвращаются отдельно
// и превращаются в 400 {"error": "..."}.
type ShotResult struct {
	Success   bool     `json:"success"`
	NextLevel *int     `json:"nextLevel,omitempty"`
	GameOver  bool     `json:"gameOver"`
	Completed bool     `json:"completed,omitempty"`
	Reason    string   `json:"reason,omitempty"` // "miss" | "completed"
	Position  *int     `json:"position,omitempty"`
	Prize     *float64 `json:"prize,omitempty"`
	LivesLeft *int     `json:"livesLeft,omitempty"`
}

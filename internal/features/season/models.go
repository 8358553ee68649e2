// Package season реализует призовую экономику: сезоны, победителей,
// сжигание burn-пула и рейтинги.
// models.go описывает все структуры данных сезонной бухгалтерии.
package season

import "time"

// Season — призовая эпоха. В любой момент активен ровно один сезон
// (частичный уникальный индекс по status='active').
// Сезон закрывается, когда разыграны все призовые места, и остаток
// пула переносится в следующий.
type Season struct {
	ID               int64      `db:"id" json:"id"`
	Status           string     `db:"status" json:"status"` // active | finished
	PrizePool        float64    `db:"prize_pool" json:"prize_pool"`
	BurnPool         float64    `db:"burn_pool" json:"burn_pool"`
	TotalFees        float64    `db:"total_fees" json:"total_fees"`
	TotalCompletions int        `db:"total_completions" json:"total_completions"`
	StartedAt        time.Time  `db:"started_at" json:"started_at"`
	FinishedAt       *time.Time `db:"finished_at" json:"finished_at"`
}

// Winner — запись о призовом месте сезона.
// Позиция уникальна в рамках сезона (1..MAX_WINNERS).
type Winner struct {
	ID          int64     `db:"id" json:"id"`
	SeasonID    int64     `db:"season_id" json:"season_id"`
	PlayerID    int64     `db:"player_id" json:"player_id"`
	SessionID   int64     `db:"session_id" json:"session_id"`
	Position    int       `db:"position" json:"position"`
	PrizeAmount float64   `db:"prize_amount" json:"prize_amount"`
	AwardedAt   time.Time `db:"awarded_at" json:"awarded_at"`
	Username    string    `db:"username" json:"username"` // из JOIN с players
}

// Award — результат розыгрыша призового места при прохождении игры.
type Award struct {
	Position int     `json:"position"` // 1, 2 или 3
	Prize    float64 `json:"prize"`    // Доля призового пула на момент награждения
}

// BurnFlush — результат сброса burn-пула в журнал сжигания.
type BurnFlush struct {
	Amount             float64 // Сколько ушло в burn_log
	TriggerCompletions int     // Счётчик прохождений, вызвавший сброс
}

// RankingEntry — строка сезонного рейтинга.
type RankingEntry struct {
	SessionID    int64      `json:"session_id"`
	Username     string     `json:"username"`
	CurrentLevel int        `json:"current_level"`
	TotalShots   int        `json:"total_shots"`
	TotalHits    int        `json:"total_hits"`
	TotalMisses  int        `json:"total_misses"`
	Completed    bool       `json:"completed"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at"`
	Accuracy     float64    `json:"accuracy"` // total_hits / total_shots * 100
}

// RankingPayload — ответ GET /api/ranking.
type RankingPayload struct {
	Season  *Season         `json:"season"`
	Ranking []*RankingEntry `json:"ranking"`
	Winners []*Winner       `json:"winners"`
}

// Info — ответ GET /api/season: сезон плюс агрегаты.
type Info struct {
	*Season
	WinnersCount   int     `json:"winners_count"`
	SpotsRemaining int     `json:"spots_remaining"`
	TotalPlayers   int     `json:"total_players"`
	TotalBurned    float64 `json:"total_burned"`
	Fee            float64 `json:"fee"`
	TotalLevels    int     `json:"totalLevels"`
}

// PoolInfo — ответ GET /api/prize-pool: снимок пулов активного сезона.
type PoolInfo struct {
	SeasonID       int64   `json:"season_id"`
	PrizePool      float64 `json:"prize_pool"`
	BurnPool       float64 `json:"burn_pool"`
	TotalFees      float64 `json:"total_fees"`
	WinnersCount   int     `json:"winners_count"`
	SpotsRemaining int     `json:"spots_remaining"`
	Fee            float64 `json:"fee"`
}

// TopPlayer — строка всевременной статистики.
type TopPlayer struct {
	Username         string  `json:"username"`
	TotalGames       int     `json:"total_games"`
	BestLevel        int     `json:"best_level"`
	TotalCompletions int     `json:"total_completions"`
	AvgAccuracy      float64 `json:"avg_accuracy"`
}

// AllTimeStats — ответ GET /api/all-time-stats.
type AllTimeStats struct {
	TopPlayers    []*TopPlayer `json:"topPlayers"`
	RecentWinners []*Winner    `json:"recentWinners"`
}

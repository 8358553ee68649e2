// Package config загружает конфигурацию сервера из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- HTTP ---
	HTTPPort         int           `envconfig:"HTTP_PORT" default:"3010"`
	HTTPReadTimeout  time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"10s"`
	HTTPWriteTimeout time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"15s"`
	// Разрешённые Origin для CORS, через запятую.
	// Пустое значение — разрешён любой origin (режим разработки).
	AllowedOriginsRaw string   `envconfig:"ALLOWED_ORIGINS" default:""`
	AllowedOrigins    []string `envconfig:"-"` // заполним вручную

	// --- Database ---
	// В Docker внутри контейнера "localhost" почти всегда неправильно.
	// Дефолт ставим "postgres" (имя сервиса в docker-compose), а для локалки переопределяй DB_HOST=localhost.
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"appleshot"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"appleshot"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`

	// --- Game ---
	// Количество уровней. Кривые сложности рассчитаны на 35.
	GameTotalLevels int `envconfig:"GAME_TOTAL_LEVELS" default:"35"`
	// Минимальный интервал между выстрелами одной сессии (анти-чит)
	GameMinShotInterval time.Duration `envconfig:"GAME_MIN_SHOT_INTERVAL" default:"800ms"`

	// --- Tokenomics ---
	// Фиксированная плата за игру, делится на призовой/сжигаемый/операционный пулы
	FeePerGame     float64 `envconfig:"FEE_PER_GAME" default:"1.0"`
	PrizePoolPct   float64 `envconfig:"PRIZE_POOL_PCT" default:"0.70"`
	BurnPoolPct    float64 `envconfig:"BURN_POOL_PCT" default:"0.20"`
	OperationalPct float64 `envconfig:"OPERATIONAL_PCT" default:"0.10"`
	// Каждые BURN_TRIGGER прохождений burn-пул сезона сбрасывается в burn_log
	BurnTrigger int `envconfig:"BURN_TRIGGER" default:"10"`
	// Доли призового пула за 1/2/3 места. После третьего победителя сезон закрывается.
	Prize1stPct float64 `envconfig:"PRIZE_1ST_PCT" default:"0.10"`
	Prize2ndPct float64 `envconfig:"PRIZE_2ND_PCT" default:"0.06"`
	Prize3rdPct float64 `envconfig:"PRIZE_3RD_PCT" default:"0.04"`
	MaxWinners  int     `envconfig:"MAX_WINNERS" default:"3"`

	// --- Solana monitor ---
	// Кошелёк, на который приходят налоги с транзакций токена.
	// Пустое значение — мониторинг выключен.
	SolanaDevWallet    string        `envconfig:"DEV_WALLET" default:""`
	SolanaRPC          string        `envconfig:"SOLANA_RPC" default:"https://api.mainnet-beta.solana.com"`
	SolanaPollInterval time.Duration `envconfig:"SOLANA_POLL_INTERVAL" default:"10s"`

	// --- Rate Limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"30"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// PrizePcts возвращает доли призов по позициям (индекс 0 = 1 место).
func (c *Config) PrizePcts() []float64 {
	return []float64{c.Prize1stPct, c.Prize2ndPct, c.Prize3rdPct}
}

func (c *Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("некорректный HTTP_PORT: %d", c.HTTPPort)
	}
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
	}
	if c.GameTotalLevels < 2 {
		return fmt.Errorf("GAME_TOTAL_LEVELS должен быть >= 2")
	}
	if c.GameMinShotInterval <= 0 {
		return fmt.Errorf("GAME_MIN_SHOT_INTERVAL должен быть > 0")
	}
	if c.FeePerGame < 0 {
		return fmt.Errorf("FEE_PER_GAME не может быть отрицательной")
	}
	// Сумма долей должна давать ровно 1 — иначе комиссия "теряется" или "раздувается"
	if sum := c.PrizePoolPct + c.BurnPoolPct + c.OperationalPct; math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("доли пулов должны в сумме давать 1.0, получилось %.4f", sum)
	}
	if c.MaxWinners < 1 || c.MaxWinners > len(c.PrizePcts()) {
		return fmt.Errorf("MAX_WINNERS должен быть 1..%d", len(c.PrizePcts()))
	}
	for i, pct := range c.PrizePcts() {
		if pct <= 0 || pct >= 1 {
			return fmt.Errorf("доля приза за %d место должна быть в (0, 1)", i+1)
		}
	}
	if c.BurnTrigger <= 0 {
		return fmt.Errorf("BURN_TRIGGER должен быть > 0")
	}
	if c.RateLimitRequests <= 0 || c.RateLimitWindow <= 0 {
		return fmt.Errorf("некорректные настройки rate limit")
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}

	cfg.AllowedOrigins = parseCSV(cfg.AllowedOriginsRaw)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parseCSV(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

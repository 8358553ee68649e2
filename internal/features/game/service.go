// Package game — service.go реализует машину состояний игровой сессии:
// старт игры с оплатой комиссии, валидацию и применение выстрелов,
// переход в призовую бухгалтерию при полном прохождении.
package game

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/apple-shot/internal/common"
	"serotonyl.ru/apple-shot/internal/config"
	"serotonyl.ru/apple-shot/internal/features/players"
	"serotonyl.ru/apple-shot/internal/features/season"
)

// Store — операции с таблицами game_sessions/global_stats, нужные сервису.
// Реализуется Repository; в тестах подменяется моком.
type Store interface {
	CreateSession(ctx context.Context, playerID, seasonID int64, fee, prizeAdd, burnAdd float64, sessionHash string) (int64, error)
	GetByIDAndHash(ctx context.Context, id int64, sessionHash string) (*Session, error)
	GetByID(ctx context.Context, id int64) (*Session, error)
	AdvanceLevel(ctx context.Context, sessionID int64, fromLevel int, complete bool) (bool, error)
	RecordMiss(ctx context.Context, sessionID int64, fromLevel int, terminal bool) (bool, error)
	BumpLevelStats(ctx context.Context, level int, hit bool) error
	GetLevelStats(ctx context.Context, level int) (*LevelStats, error)
	ListLevelStats(ctx context.Context) ([]*LevelStats, error)
}

// SeasonLedger — призовая бухгалтерия (features/season).
type SeasonLedger interface {
	Active(ctx context.Context) (*season.Season, error)
	HandleCompletion(ctx context.Context, playerID, sessionID int64, playerName string) (*season.Award, error)
}

// PlayerDirectory — справочник игроков (features/players).
type PlayerDirectory interface {
	GetByID(ctx context.Context, id int64) (*players.Player, error)
}

// ActivityLogger — запись событий в активити-ленту (features/activity).
type ActivityLogger interface {
	Record(ctx context.Context, entryType, playerName string, level int, detail string)
}

// Service управляет игровыми сессиями.
type Service struct {
	store    Store
	seasons  SeasonLedger
	players  PlayerDirectory
	activity ActivityLogger
	cfg      *config.Config
}

// NewService создаёт игровой сервис.
func NewService(store Store, seasons SeasonLedger, playerDir PlayerDirectory, activity ActivityLogger, cfg *config.Config) *Service {
	return &Service{
		store:    store,
		seasons:  seasons,
		players:  playerDir,
		activity: activity,
		cfg:      cfg,
	}
}

// StartSession начинает новое прохождение: создаёт сессию на первом
// уровне со свежим session hash и зачисляет комиссию в пулы активного
// сезона (вставка и зачисление — одна транзакция в хранилище).
// Хэш возвращается клиенту один раз — без него выстрелы не принимаются.
func (s *Service) StartSession(ctx context.Context, playerID int64) (*StartResult, error) {
	// Игрок должен существовать — иначе сессии-сироты
	if _, err := s.players.GetByID(ctx, playerID); err != nil {
		return nil, err
	}

	activeSeason, err := s.seasons.Active(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения сезона: %w", err)
	}

	sessionHash, err := newSessionHash()
	if err != nil {
		return nil, err
	}

	// Комиссия делится по долям из конфигурации (по умолчанию 70/20/10);
	// операционная доля мимо сезона — она уходит на кошелёк проекта
	fee := s.cfg.FeePerGame
	sessionID, err := s.store.CreateSession(ctx, playerID, activeSeason.ID,
		fee, fee*s.cfg.PrizePoolPct, fee*s.cfg.BurnPoolPct, sessionHash)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"session_id": sessionID,
		"player_id":  playerID,
		"season_id":  activeSeason.ID,
	}).Info("Новая игровая сессия")

	return &StartResult{
		SessionID:   sessionID,
		SessionHash: sessionHash,
		SeasonID:    activeSeason.ID,
		Fee:         fee,
	}, nil
}

// SubmitShot валидирует и применяет результат одного выстрела.
//
// Порядок проверок фиксирован:
//  1. пара (id, hash) → ErrInvalidSession
//  2. терминальная сессия → ErrSessionCompleted
//  3. несовпадение уровня → ErrWrongLevel (ни пропустить, ни повторить)
//  4. слишком частые выстрелы → ErrTooFast (анти-чит, пер-сессионный)
//
// Глобальная статистика уровня обновляется для любого валидного
// выстрела — и попадания, и промаха.
func (s *Service) SubmitShot(ctx context.Context, req ShotRequest) (*ShotResult, error) {
	sess, err := s.store.GetByIDAndHash(ctx, req.SessionID, req.SessionHash)
	if err != nil {
		return nil, err
	}

	// Терминальные состояния: прошёл всё или уже проиграл
	if sess.Completed || sess.FinishedAt != nil {
		return nil, common.ErrSessionCompleted
	}
	if sess.CurrentLevel != req.Level {
		return nil, common.ErrWrongLevel
	}
	if sess.LastShotAt != nil && time.Since(*sess.LastShotAt) < s.cfg.GameMinShotInterval {
		return nil, common.ErrTooFast
	}

	// Статистика — безусловно после прохождения проверок
	if err := s.store.BumpLevelStats(ctx, req.Level, req.Hit); err != nil {
		// Статистика не должна ронять выстрел
		log.WithError(err).Error("Ошибка обновления глобальной статистики")
	}

	playerName := s.playerName(ctx, sess.PlayerID)

	if req.Hit {
		return s.applyHit(ctx, sess, req.Level, playerName)
	}
	return s.applyMiss(ctx, sess, req, playerName)
}

// applyHit продвигает сессию на уровень вверх, а на последнем уровне
// завершает прохождение и передаёт его в призовую бухгалтерию.
func (s *Service) applyHit(ctx context.Context, sess *Session, level int, playerName string) (*ShotResult, error) {
	isComplete := level >= s.cfg.GameTotalLevels

	ok, err := s.store.AdvanceLevel(ctx, sess.ID, level, isComplete)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Конкурирующий запрос успел первым — для клиента это тот же
		// несовпавший уровень
		return nil, common.ErrWrongLevel
	}

	if isComplete {
		award, err := s.seasons.HandleCompletion(ctx, sess.PlayerID, sess.ID, playerName)
		if err != nil {
			return nil, err
		}

		res := &ShotResult{
			Success:   true,
			GameOver:  true,
			Completed: true,
			Reason:    "completed",
		}
		if award != nil {
			res.Position = &award.Position
			res.Prize = &award.Prize
		}
		return res, nil
	}

	s.activity.Record(ctx, "hit", playerName, level, "Passed level")

	next := level + 1
	return &ShotResult{Success: true, NextLevel: &next}, nil
}

// applyMiss фиксирует промах. В режиме с жизнями сессия завершается
// только когда жизни кончились; без поля livesLeft промах терминален.
func (s *Service) applyMiss(ctx context.Context, sess *Session, req ShotRequest, playerName string) (*ShotResult, error) {
	terminal := req.LivesLeft == nil || *req.LivesLeft <= 0

	ok, err := s.store.RecordMiss(ctx, sess.ID, req.Level, terminal)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrWrongLevel
	}

	detail := "Game over"
	if req.LivesLeft != nil {
		if terminal {
			detail = "Game over (0 lives)"
		} else {
			detail = fmt.Sprintf("Lost a life (%d left)", *req.LivesLeft)
		}
	}
	s.activity.Record(ctx, "miss", playerName, req.Level, detail)

	return &ShotResult{
		Success:   true,
		GameOver:  terminal,
		Reason:    "miss",
		LivesLeft: req.LivesLeft,
	}, nil
}

// LevelConfig возвращает конфигурацию уровня с применённой глобальной
// подстройкой сложности.
func (s *Service) LevelConfig(ctx context.Context, level int) (*LevelConfig, error) {
	base, err := BaseLevelConfig(level, s.cfg.GameTotalLevels)
	if err != nil {
		return nil, err
	}

	stats, err := s.store.GetLevelStats(ctx, level)
	if err != nil {
		// Без статистики уровень отдаём как есть
		log.WithError(err).Warn("Статистика уровня недоступна, отдаём базовую конфигурацию")
		stats = nil
	}

	return applyDifficulty(base, stats), nil
}

// LevelStatsList возвращает статистику всех уровней для GET /api/level-stats.
func (s *Service) LevelStatsList(ctx context.Context) ([]*LevelStats, error) {
	return s.store.ListLevelStats(ctx)
}

// SessionByID возвращает сессию для GET /api/session/:id.
func (s *Service) SessionByID(ctx context.Context, id int64) (*Session, error) {
	return s.store.GetByID(ctx, id)
}

// playerName возвращает имя игрока для активити-ленты.
// Ошибка здесь не критична — лента переживёт пустое имя.
func (s *Service) playerName(ctx context.Context, playerID int64) string {
	p, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		log.WithError(err).WithField("player_id", playerID).Warn("Не удалось получить имя игрока")
		return ""
	}
	return p.Username
}

// newSessionHash генерирует неугадываемый session hash: 16 случайных
// байт в hex, как и в клиентском протоколе.
func newSessionHash() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("ошибка генерации session hash: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

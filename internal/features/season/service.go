// Package season — service.go координирует призовую экономику:
// розыгрыш мест при прохождении, сжигание burn-пула и смену сезонов.
// Зачисление комиссии идёт вместе со вставкой сессии (features/game),
// чтобы деньги и сессия появлялись в одной транзакции.
package season

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/apple-shot/internal/common"
	"serotonyl.ru/apple-shot/internal/config"
)

// Store — операции с таблицами сезонной бухгалтерии, нужные сервису.
// Реализуется Repository; в тестах подменяется моком.
type Store interface {
	Active(ctx context.Context) (*Season, error)
	GetByID(ctx context.Context, id int64) (*Season, error)
	IncrementCompletions(ctx context.Context, seasonID int64) (int, error)
	AwardNextPosition(ctx context.Context, seasonID, playerID, sessionID int64, pcts []float64, maxWinners int) (*Award, error)
	EndSeason(ctx context.Context, seasonID int64) error
	FlushBurnIfDue(ctx context.Context, seasonID int64, trigger int) (*BurnFlush, error)
	WinnerCount(ctx context.Context, seasonID int64) (int, error)
	Winners(ctx context.Context, seasonID int64) ([]*Winner, error)
	RecentWinners(ctx context.Context, limit int) ([]*Winner, error)
	Ranking(ctx context.Context, seasonID int64, limit int) ([]*RankingEntry, error)
	TotalPlayers(ctx context.Context, seasonID int64) (int, error)
	TotalBurned(ctx context.Context, seasonID int64) (float64, error)
	TopPlayers(ctx context.Context, limit int) ([]*TopPlayer, error)
}

// ActivityLogger — запись событий в активити-ленту (features/activity).
type ActivityLogger interface {
	Record(ctx context.Context, entryType, playerName string, level int, detail string)
}

// Service управляет сезонами и призами.
type Service struct {
	store    Store
	activity ActivityLogger
	cfg      *config.Config
}

// NewService создаёт сервис сезонов.
func NewService(store Store, activity ActivityLogger, cfg *config.Config) *Service {
	return &Service{store: store, activity: activity, cfg: cfg}
}

// Active возвращает активный сезон (создаёт при отсутствии).
func (s *Service) Active(ctx context.Context) (*Season, error) {
	return s.store.Active(ctx)
}

// HandleCompletion обрабатывает полное прохождение всех уровней:
//  1. инкремент счётчика прохождений сезона
//  2. запись в активити-ленту
//  3. розыгрыш следующего незанятого призового места (если осталось)
//  4. закрытие сезона после последнего места (остаток пула — в новый сезон)
//  5. сброс burn-пула каждые BURN_TRIGGER прохождений
//
// Возвращает награду или nil, если призовые места уже разыграны.
func (s *Service) HandleCompletion(ctx context.Context, playerID, sessionID int64, playerName string) (*Award, error) {
	season, err := s.store.Active(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения сезона: %w", err)
	}

	if _, err := s.store.IncrementCompletions(ctx, season.ID); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, "complete", playerName, s.cfg.GameTotalLevels,
		fmt.Sprintf("Completed all %d levels!", s.cfg.GameTotalLevels))

	award, err := s.store.AwardNextPosition(ctx, season.ID, playerID, sessionID,
		s.cfg.PrizePcts(), s.cfg.MaxWinners)
	if err != nil {
		return nil, err
	}

	if award != nil {
		log.WithFields(log.Fields{
			"season_id": season.ID,
			"player_id": playerID,
			"position":  award.Position,
			"prize":     award.Prize,
		}).Info("Разыграно призовое место")

		s.activity.Record(ctx, "winner", playerName, s.cfg.GameTotalLevels,
			fmt.Sprintf("Took place #%d and won %s!", award.Position, common.FormatSOL(award.Prize)))

		// Последнее место разыграно — сезон закрывается, остаток переносится
		if award.Position == s.cfg.MaxWinners {
			if err := s.store.EndSeason(ctx, season.ID); err != nil {
				return nil, err
			}
			log.WithField("season_id", season.ID).Info("Сезон завершён, открыт новый")
		}
	}

	// Сжигание проверяем всегда: триггер срабатывает по счётчику
	// прохождений, а не по факту награждения
	flush, err := s.store.FlushBurnIfDue(ctx, season.ID, s.cfg.BurnTrigger)
	if err != nil {
		// Сжигание — бухгалтерия, не должна ронять прохождение
		log.WithError(err).Error("Ошибка сброса burn-пула")
	} else if flush != nil {
		log.WithFields(log.Fields{
			"season_id":   season.ID,
			"amount":      flush.Amount,
			"completions": flush.TriggerCompletions,
		}).Info("Burn-пул сброшен в журнал сжигания")
	}

	return award, nil
}

// Ranking возвращает рейтинг сезона (по умолчанию — активного) вместе
// с победителями.
func (s *Service) Ranking(ctx context.Context, seasonID *int64) (*RankingPayload, error) {
	var (
		season *Season
		err    error
	)
	if seasonID != nil {
		season, err = s.store.GetByID(ctx, *seasonID)
	} else {
		season, err = s.store.Active(ctx)
	}
	if err != nil {
		return nil, err
	}

	ranking, err := s.store.Ranking(ctx, season.ID, 100)
	if err != nil {
		return nil, err
	}
	winners, err := s.store.Winners(ctx, season.ID)
	if err != nil {
		return nil, err
	}

	return &RankingPayload{Season: season, Ranking: ranking, Winners: winners}, nil
}

// Info возвращает активный сезон с агрегатами для GET /api/season.
func (s *Service) Info(ctx context.Context) (*Info, error) {
	season, err := s.store.Active(ctx)
	if err != nil {
		return nil, err
	}

	winnersCount, err := s.store.WinnerCount(ctx, season.ID)
	if err != nil {
		return nil, err
	}
	totalPlayers, err := s.store.TotalPlayers(ctx, season.ID)
	if err != nil {
		return nil, err
	}
	totalBurned, err := s.store.TotalBurned(ctx, season.ID)
	if err != nil {
		return nil, err
	}

	return &Info{
		Season:         season,
		WinnersCount:   winnersCount,
		SpotsRemaining: s.cfg.MaxWinners - winnersCount,
		TotalPlayers:   totalPlayers,
		TotalBurned:    totalBurned,
		Fee:            s.cfg.FeePerGame,
		TotalLevels:    s.cfg.GameTotalLevels,
	}, nil
}

// PoolInfo возвращает снимок пулов активного сезона для GET /api/prize-pool.
func (s *Service) PoolInfo(ctx context.Context) (*PoolInfo, error) {
	season, err := s.store.Active(ctx)
	if err != nil {
		return nil, err
	}
	winnersCount, err := s.store.WinnerCount(ctx, season.ID)
	if err != nil {
		return nil, err
	}

	return &PoolInfo{
		SeasonID:       season.ID,
		PrizePool:      season.PrizePool,
		BurnPool:       season.BurnPool,
		TotalFees:      season.TotalFees,
		WinnersCount:   winnersCount,
		SpotsRemaining: s.cfg.MaxWinners - winnersCount,
		Fee:            s.cfg.FeePerGame,
	}, nil
}

// AllTime возвращает всевременную статистику для GET /api/all-time-stats.
func (s *Service) AllTime(ctx context.Context) (*AllTimeStats, error) {
	top, err := s.store.TopPlayers(ctx, 20)
	if err != nil {
		return nil, err
	}
	recent, err := s.store.RecentWinners(ctx, 10)
	if err != nil {
		return nil, err
	}
	return &AllTimeStats{TopPlayers: top, RecentWinners: recent}, nil
}

// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: опрос Solana-кошелька
// и ежечасный снимок состояния сезона.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/apple-shot/internal/features/season"
	"serotonyl.ru/apple-shot/internal/solana"
)

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron          *cron.Cron
	monitor       *solana.Monitor
	seasonService *season.Service
	pollSpec      string
}

// NewScheduler создаёт планировщик задач.
func NewScheduler(monitor *solana.Monitor, seasonService *season.Service, pollInterval time.Duration) *Scheduler {
	return &Scheduler{
		cron:          cron.New(),
		monitor:       monitor,
		seasonService: seasonService,
		pollSpec:      fmt.Sprintf("@every %s", pollInterval),
	}
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) {
	// Опрос кошелька — только когда монитор включён
	if s.monitor.Enabled() {
		s.cron.AddFunc(s.pollSpec, func() {
			if err := s.monitor.Poll(ctx); err != nil {
				log.WithError(err).Error("[CRON] Ошибка опроса кошелька")
			}
		})
	}

	// Ежечасный снимок сезона в лог
	s.cron.AddFunc("@every 1h", func() {
		info, err := s.seasonService.Info(ctx)
		if err != nil {
			log.WithError(err).Error("[CRON] Ошибка снимка сезона")
			return
		}
		log.WithFields(log.Fields{
			"season_id":   info.ID,
			"prize_pool":  info.PrizePool,
			"completions": info.TotalCompletions,
			"winners":     info.WinnersCount,
		}).Info("[CRON] Снимок сезона")
	})

	s.cron.Start()
	log.Info("Планировщик задач запущен")
}

// Stop останавливает планировщик.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}

// Package players — service.go содержит бизнес-логику регистрации игроков.
package players

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/apple-shot/internal/common"
)

// Store — операции с таблицей players, нужные сервису.
// Реализуется Repository; в тестах подменяется моком.
type Store interface {
	Create(ctx context.Context, username, walletAddress string) (*Player, error)
	GetByUsername(ctx context.Context, username string) (*Player, error)
	GetByID(ctx context.Context, id int64) (*Player, error)
	UpdateWallet(ctx context.Context, id int64, walletAddress string) error
}

// Service управляет игроками.
type Service struct {
	store Store
}

// NewService создаёт новый сервис игроков.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Register регистрирует игрока или возвращает существующего.
// Имя — неизменная идентичность; при повторной регистрации обновляется
// только кошелёк (если прислан новый).
//
// Гонка двух одновременных регистраций одного имени разрешается
// перечитыванием: проигравший INSERT получает 23505 и забирает
// запись победителя.
func (s *Service) Register(ctx context.Context, username, walletAddress string) (*Player, error) {
	existing, err := s.store.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, common.ErrPlayerNotFound) {
		return nil, err
	}
	if existing != nil {
		if walletAddress != "" && walletAddress != existing.WalletAddress {
			if err := s.store.UpdateWallet(ctx, existing.ID, walletAddress); err != nil {
				return nil, err
			}
			existing.WalletAddress = walletAddress
			log.WithField("player_id", existing.ID).Info("Кошелёк игрока обновлён")
		}
		return existing, nil
	}

	created, err := s.store.Create(ctx, username, walletAddress)
	if err != nil {
		// Уникальное имя занято между проверкой и вставкой — забираем существующего
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return s.store.GetByUsername(ctx, username)
		}
		return nil, fmt.Errorf("ошибка регистрации: %w", err)
	}

	log.WithFields(log.Fields{
		"player_id": created.ID,
		"username":  created.Username,
	}).Info("Новый игрок зарегистрирован")

	return created, nil
}

// GetByID возвращает игрока по id.
func (s *Service) GetByID(ctx context.Context, id int64) (*Player, error) {
	return s.store.GetByID(ctx, id)
}

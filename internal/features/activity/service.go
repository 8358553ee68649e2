// Package activity — service.go содержит логику ленты событий.
package activity

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// Store — операции с хранилищем событий.
type Store interface {
	Insert(ctx context.Context, entryType, playerName string, level int, detail string) error
	ListAfter(ctx context.Context, afterID int64) ([]*Entry, error)
}

// Service управляет лентой событий.
type Service struct {
	store Store
}

// NewService создаёт сервис ленты.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Record записывает событие. Лента некритична: ошибка логируется,
// вызывающий код её не видит и не откатывается.
func (s *Service) Record(ctx context.Context, entryType, playerName string, level int, detail string) {
	if err := s.store.Insert(ctx, entryType, playerName, level, detail); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"type":  entryType,
			"level": level,
		}).Error("Ошибка записи в активити-ленту")
	}
}

// List возвращает события новее курсора в хронологическом порядке.
func (s *Service) List(ctx context.Context, afterID int64) ([]*Entry, error) {
	entries, err := s.store.ListAfter(ctx, afterID)
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if entries == nil {
		entries = []*Entry{}
	}
	return entries, nil
}

// Package chat — service.go содержит бизнес-логику чата.
package chat

import (
	"context"
	"strings"
	"unicode/utf8"

	"serotonyl.ru/apple-shot/internal/common"
	"serotonyl.ru/apple-shot/internal/features/players"
)

const maxMessageLength = 200

// Store — операции с хранилищем сообщений.
type Store interface {
	Insert(ctx context.Context, playerID int64, username, message string) (int64, error)
	ListAfter(ctx context.Context, afterID int64) ([]*ChatMessage, error)
}

// PlayerDirectory — проверка существования игрока перед публикацией.
type PlayerDirectory interface {
	GetByID(ctx context.Context, id int64) (*players.Player, error)
}

// Service управляет чатом.
type Service struct {
	store   Store
	players PlayerDirectory
}

// NewService создаёт сервис чата.
func NewService(store Store, playerDir PlayerDirectory) *Service {
	return &Service{store: store, players: playerDir}
}

// Post публикует сообщение от имени игрока. Сообщение после обрезки
// пробелов должно быть непустым и не длиннее 200 символов.
func (s *Service) Post(ctx context.Context, playerID int64, message string) (*ChatMessage, error) {
	player, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	message = strings.TrimSpace(message)
	if message == "" || utf8.RuneCountInString(message) > maxMessageLength {
		return nil, common.ErrInvalidMessage
	}

	id, err := s.store.Insert(ctx, player.ID, player.Username, message)
	if err != nil {
		return nil, err
	}

	return &ChatMessage{ID: id, PlayerID: player.ID, Username: player.Username, Message: message}, nil
}

// List возвращает сообщения новее курсора в хронологическом порядке.
func (s *Service) List(ctx context.Context, afterID int64) ([]*ChatMessage, error) {
	msgs, err := s.store.ListAfter(ctx, afterID)
	if err != nil {
		return nil, err
	}

	// Хранилище отдаёт новые первыми — клиенту нужен хронологический порядок
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	if msgs == nil {
		msgs = []*ChatMessage{}
	}
	return msgs, nil
}

package chat

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/apple-shot/internal/common"
	"serotonyl.ru/apple-shot/internal/features/players"
)

// mockChatStore — мок-реализация Store для тестов чата.
type mockChatStore struct {
	messages []*ChatMessage
	nextID   int64
}

func (m *mockChatStore) Insert(ctx context.Context, playerID int64, username, message string) (int64, error) {
	m.nextID++
	m.messages = append(m.messages, &ChatMessage{ID: m.nextID, PlayerID: playerID, Username: username, Message: message})
	return m.nextID, nil
}

func (m *mockChatStore) ListAfter(ctx context.Context, afterID int64) ([]*ChatMessage, error) {
	// Как и хранилище: новые первыми
	var out []*ChatMessage
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].ID > afterID {
			out = append(out, m.messages[i])
		}
	}
	return out, nil
}

// knownPlayers — заглушка справочника игроков.
type knownPlayers struct{}

func (knownPlayers) GetByID(ctx context.Context, id int64) (*players.Player, error) {
	if id == 10 {
		return &players.Player{ID: 10, Username: "robin"}, nil
	}
	return nil, common.ErrPlayerNotFound
}

func TestPost(t *testing.T) {
	store := &mockChatStore{}
	svc := NewService(store, knownPlayers{})

	msg, err := svc.Post(context.Background(), 10, "  hello  ")
	require.NoError(t, err)

	assert.Equal(t, "robin", msg.Username)
	assert.Equal(t, int64(10), msg.PlayerID, "сообщение привязано к игроку")
	assert.Equal(t, "hello", msg.Message, "пробелы по краям обрезаются")
	assert.Equal(t, int64(1), msg.ID)
}

func TestPost_UnknownPlayer(t *testing.T) {
	svc := NewService(&mockChatStore{}, knownPlayers{})

	_, err := svc.Post(context.Background(), 999, "hello")
	assert.ErrorIs(t, err, common.ErrPlayerNotFound)
}

func TestPost_InvalidMessage(t *testing.T) {
	svc := NewService(&mockChatStore{}, knownPlayers{})

	for _, message := range []string{"", "   ", strings.Repeat("a", 201)} {
		_, err := svc.Post(context.Background(), 10, message)
		assert.ErrorIs(t, err, common.ErrInvalidMessage)
	}

	// Ровно 200 символов — ещё валидно
	_, err := svc.Post(context.Background(), 10, strings.Repeat("a", 200))
	assert.NoError(t, err)
}

func TestList_ChronologicalOrder(t *testing.T) {
	store := &mockChatStore{}
	svc := NewService(store, knownPlayers{})

	for _, text := range []string{"first", "second", "third"} {
		_, err := svc.Post(context.Background(), 10, text)
		require.NoError(t, err)
	}

	msgs, err := svc.List(context.Background(), 0)
	require.NoError(t, err)

	require.Len(t, msgs, 3)
	assert.Equal(t, "first", msgs[0].Message)
	assert.Equal(t, "third", msgs[2].Message)
}

func TestList_Cursor(t *testing.T) {
	store := &mockChatStore{}
	svc := NewService(store, knownPlayers{})

	for _, text := range []string{"first", "second", "third"} {
		_, err := svc.Post(context.Background(), 10, text)
		require.NoError(t, err)
	}

	msgs, err := svc.List(context.Background(), 2)
	require.NoError(t, err)

	require.Len(t, msgs, 1)
	assert.Equal(t, "third", msgs[0].Message)
}

func TestList_Empty(t *testing.T) {
	svc := NewService(&mockChatStore{}, knownPlayers{})

	msgs, err := svc.List(context.Background(), 0)
	require.NoError(t, err)
	assert.NotNil(t, msgs, "пустой список сериализуется как [], а не null")
	assert.Empty(t, msgs)
}

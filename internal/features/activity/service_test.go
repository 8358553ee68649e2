package activity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockActivityStore — мок-реализация Store для тестов ленты.
type mockActivityStore struct {
	entries   []*Entry
	nextID    int64
	insertErr error
}

func (m *mockActivityStore) Insert(ctx context.Context, entryType, playerName string, level int, detail string) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.nextID++
	m.entries = append(m.entries, &Entry{
		ID: m.nextID, Type: entryType, PlayerName: playerName, Level: level, Detail: detail,
	})
	return nil
}

func (m *mockActivityStore) ListAfter(ctx context.Context, afterID int64) ([]*Entry, error) {
	var out []*Entry
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].ID > afterID {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

func TestRecordAndList(t *testing.T) {
	store := &mockActivityStore{}
	svc := NewService(store)
	ctx := context.Background()

	svc.Record(ctx, "hit", "robin", 5, "Passed level")
	svc.Record(ctx, "miss", "tuck", 7, "Game over")

	entries, err := svc.List(ctx, 0)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	// Хронологический порядок: старые первыми
	assert.Equal(t, "hit", entries[0].Type)
	assert.Equal(t, "miss", entries[1].Type)
}

func TestRecord_SwallowsError(t *testing.T) {
	store := &mockActivityStore{insertErr: errors.New("db down")}
	svc := NewService(store)

	// Лента некритична: ошибка не должна паниковать и всплывать
	svc.Record(context.Background(), "hit", "robin", 5, "Passed level")
}

func TestList_Cursor(t *testing.T) {
	store := &mockActivityStore{}
	svc := NewService(store)
	ctx := context.Background()

	svc.Record(ctx, "hit", "robin", 1, "Passed level")
	svc.Record(ctx, "hit", "robin", 2, "Passed level")

	entries, err := svc.List(ctx, 1)
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].Level)
}

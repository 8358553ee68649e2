package season

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/apple-shot/internal/config"
)

// mockSeasonStore — мок-реализация Store для тестов призовой логики.
type mockSeasonStore struct {
	season      *Season
	nextAward   *Award
	flushResult *BurnFlush

	completions  int
	endedSeasons []int64
	flushChecks  int
	awardPcts    []float64
	awardMax     int
}

func (m *mockSeasonStore) Active(ctx context.Context) (*Season, error) {
	return m.season, nil
}

func (m *mockSeasonStore) GetByID(ctx context.Context, id int64) (*Season, error) {
	if m.season == nil || m.season.ID != id {
		return nil, errors.New("not found")
	}
	return m.season, nil
}

func (m *mockSeasonStore) IncrementCompletions(ctx context.Context, seasonID int64) (int, error) {
	m.completions++
	return m.completions, nil
}

func (m *mockSeasonStore) AwardNextPosition(ctx context.Context, seasonID, playerID, sessionID int64, pcts []float64, maxWinners int) (*Award, error) {
	m.awardPcts = pcts
	m.awardMax = maxWinners
	return m.nextAward, nil
}

func (m *mockSeasonStore) EndSeason(ctx context.Context, seasonID int64) error {
	m.endedSeasons = append(m.endedSeasons, seasonID)
	return nil
}

func (m *mockSeasonStore) FlushBurnIfDue(ctx context.Context, seasonID int64, trigger int) (*BurnFlush, error) {
	m.flushChecks++
	return m.flushResult, nil
}

func (m *mockSeasonStore) WinnerCount(ctx context.Context, seasonID int64) (int, error) {
	return len(m.endedSeasons), nil
}

func (m *mockSeasonStore) Winners(ctx context.Context, seasonID int64) ([]*Winner, error) {
	return nil, nil
}

func (m *mockSeasonStore) RecentWinners(ctx context.Context, limit int) ([]*Winner, error) {
	return nil, nil
}

func (m *mockSeasonStore) Ranking(ctx context.Context, seasonID int64, limit int) ([]*RankingEntry, error) {
	return []*RankingEntry{}, nil
}

func (m *mockSeasonStore) TotalPlayers(ctx context.Context, seasonID int64) (int, error) {
	return 5, nil
}

func (m *mockSeasonStore) TotalBurned(ctx context.Context, seasonID int64) (float64, error) {
	return 0, nil
}

func (m *mockSeasonStore) TopPlayers(ctx context.Context, limit int) ([]*TopPlayer, error) {
	return nil, nil
}

// noopActivity — заглушка ленты событий.
type noopActivity struct{}

func (noopActivity) Record(ctx context.Context, entryType, playerName string, level int, detail string) {
}

// recordingActivity запоминает типы записанных событий.
type recordingActivity struct {
	types []string
}

func (r *recordingActivity) Record(ctx context.Context, entryType, playerName string, level int, detail string) {
	r.types = append(r.types, entryType)
}

func testSeasonConfig() *config.Config {
	return &config.Config{
		GameTotalLevels: 35,
		FeePerGame:      1.0,
		PrizePoolPct:    0.70,
		BurnPoolPct:     0.20,
		OperationalPct:  0.10,
		BurnTrigger:     10,
		Prize1stPct:     0.10,
		Prize2ndPct:     0.06,
		Prize3rdPct:     0.04,
		MaxWinners:      3,
	}
}

func activeTestSeason() *Season {
	return &Season{ID: 7, Status: "active", PrizePool: 70, BurnPool: 20, StartedAt: time.Now()}
}

func TestHandleCompletion_AwardsPosition(t *testing.T) {
	store := &mockSeasonStore{
		season:    activeTestSeason(),
		nextAward: &Award{Position: 1, Prize: 7.0},
	}
	activity := &recordingActivity{}
	svc := NewService(store, activity, testSeasonConfig())

	award, err := svc.HandleCompletion(context.Background(), 10, 42, "robin")
	require.NoError(t, err)

	require.NotNil(t, award)
	assert.Equal(t, 1, award.Position)
	assert.Equal(t, 7.0, award.Prize)
	assert.Equal(t, 1, store.completions)
	assert.Equal(t, []float64{0.10, 0.06, 0.04}, store.awardPcts)
	assert.Equal(t, 3, store.awardMax)
	assert.Empty(t, store.endedSeasons, "сезон не закрывается до последнего места")

	// Награждённое прохождение даёт две записи в ленте
	assert.Equal(t, []string{"complete", "winner"}, activity.types)
}

func TestHandleCompletion_LastWinnerEndsSeason(t *testing.T) {
	store := &mockSeasonStore{
		season:    activeTestSeason(),
		nextAward: &Award{Position: 3, Prize: 2.8},
	}
	svc := NewService(store, noopActivity{}, testSeasonConfig())

	award, err := svc.HandleCompletion(context.Background(), 10, 42, "robin")
	require.NoError(t, err)

	require.NotNil(t, award)
	assert.Equal(t, 3, award.Position)
	assert.Equal(t, []int64{7}, store.endedSeasons, "третий победитель закрывает сезон")
}

func TestHandleCompletion_NoSpotsLeft(t *testing.T) {
	store := &mockSeasonStore{season: activeTestSeason(), nextAward: nil}
	activity := &recordingActivity{}
	svc := NewService(store, activity, testSeasonConfig())

	award, err := svc.HandleCompletion(context.Background(), 10, 42, "robin")
	require.NoError(t, err)

	assert.Nil(t, award, "после трёх победителей прохождение без приза")
	assert.Equal(t, 1, store.completions, "но счётчик прохождений растёт")
	assert.Empty(t, store.endedSeasons)
	assert.Equal(t, []string{"complete"}, activity.types, "без награды записи winner нет")
}

func TestHandleCompletion_ChecksBurnFlush(t *testing.T) {
	store := &mockSeasonStore{
		season:      activeTestSeason(),
		flushResult: &BurnFlush{Amount: 20, TriggerCompletions: 10},
	}
	svc := NewService(store, noopActivity{}, testSeasonConfig())

	_, err := svc.HandleCompletion(context.Background(), 10, 42, "robin")
	require.NoError(t, err)

	assert.Equal(t, 1, store.flushChecks, "сжигание проверяется на каждом прохождении")
}

func TestInfo(t *testing.T) {
	store := &mockSeasonStore{season: activeTestSeason()}
	svc := NewService(store, noopActivity{}, testSeasonConfig())

	info, err := svc.Info(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(7), info.ID)
	assert.Equal(t, 3, info.SpotsRemaining)
	assert.Equal(t, 5, info.TotalPlayers)
	assert.Equal(t, 1.0, info.Fee)
	assert.Equal(t, 35, info.TotalLevels)
}

func TestPoolInfo(t *testing.T) {
	store := &mockSeasonStore{season: activeTestSeason()}
	svc := NewService(store, noopActivity{}, testSeasonConfig())

	info, err := svc.PoolInfo(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 70.0, info.PrizePool)
	assert.Equal(t, 20.0, info.BurnPool)
	assert.Equal(t, 3, info.SpotsRemaining)
}

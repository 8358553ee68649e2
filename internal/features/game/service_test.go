package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/apple-shot/internal/common"
	"serotonyl.ru/apple-shot/internal/config"
	"serotonyl.ru/apple-shot/internal/features/players"
	"serotonyl.ru/apple-shot/internal/features/season"
)

// mockStore — мок-реализация Store для тестов машины состояний.
type mockStore struct {
	session *Session
	stats   *LevelStats

	createdSessions int
	createdFee      float64
	createdPrizeAdd float64
	createdBurnAdd  float64
	advanceCalls    int
	advanceComplete bool
	missCalls       int
	missTerminal    bool
	statsCalls      int
	statsHit        bool
}

func (m *mockStore) CreateSession(ctx context.Context, playerID, seasonID int64, fee, prizeAdd, burnAdd float64, sessionHash string) (int64, error) {
	m.createdSessions++
	m.createdFee = fee
	m.createdPrizeAdd = prizeAdd
	m.createdBurnAdd = burnAdd
	return 42, nil
}

func (m *mockStore) GetByIDAndHash(ctx context.Context, id int64, sessionHash string) (*Session, error) {
	if m.session == nil || m.session.ID != id || m.session.SessionHash != sessionHash {
		return nil, common.ErrInvalidSession
	}
	copied := *m.session
	return &copied, nil
}

func (m *mockStore) GetByID(ctx context.Context, id int64) (*Session, error) {
	if m.session == nil || m.session.ID != id {
		return nil, common.ErrSessionNotFound
	}
	return m.session, nil
}

func (m *mockStore) AdvanceLevel(ctx context.Context, sessionID int64, fromLevel int, complete bool) (bool, error) {
	if m.session == nil || m.session.CurrentLevel != fromLevel || m.session.Completed || m.session.FinishedAt != nil {
		return false, nil
	}
	m.advanceCalls++
	m.advanceComplete = complete
	if complete {
		m.session.Completed = true
		now := time.Now()
		m.session.FinishedAt = &now
	} else {
		m.session.CurrentLevel++
	}
	return true, nil
}

func (m *mockStore) RecordMiss(ctx context.Context, sessionID int64, fromLevel int, terminal bool) (bool, error) {
	if m.session == nil || m.session.CurrentLevel != fromLevel || m.session.Completed || m.session.FinishedAt != nil {
		return false, nil
	}
	m.missCalls++
	m.missTerminal = terminal
	if terminal {
		now := time.Now()
		m.session.FinishedAt = &now
	}
	return true, nil
}

func (m *mockStore) BumpLevelStats(ctx context.Context, level int, hit bool) error {
	m.statsCalls++
	m.statsHit = hit
	return nil
}

func (m *mockStore) GetLevelStats(ctx context.Context, level int) (*LevelStats, error) {
	return m.stats, nil
}

func (m *mockStore) ListLevelStats(ctx context.Context) ([]*LevelStats, error) {
	return nil, nil
}

// mockLedger — мок-реализация SeasonLedger.
type mockLedger struct {
	award       *season.Award
	completions int
}

func (m *mockLedger) Active(ctx context.Context) (*season.Season, error) {
	return &season.Season{ID: 7, Status: "active"}, nil
}

func (m *mockLedger) HandleCompletion(ctx context.Context, playerID, sessionID int64, playerName string) (*season.Award, error) {
	m.completions++
	return m.award, nil
}

// mockDirectory — мок-реализация PlayerDirectory.
type mockDirectory struct {
	player *players.Player
}

func (m *mockDirectory) GetByID(ctx context.Context, id int64) (*players.Player, error) {
	if m.player == nil || m.player.ID != id {
		return nil, common.ErrPlayerNotFound
	}
	return m.player, nil
}

// mockActivity — мок-реализация ActivityLogger.
type mockActivity struct {
	types   []string
	details []string
}

func (m *mockActivity) Record(ctx context.Context, entryType, playerName string, level int, detail string) {
	m.types = append(m.types, entryType)
	m.details = append(m.details, detail)
}

func testConfig() *config.Config {
	return &config.Config{
		GameTotalLevels:     35,
		GameMinShotInterval: 800 * time.Millisecond,
		FeePerGame:          1.0,
		PrizePoolPct:        0.70,
		BurnPoolPct:         0.20,
		OperationalPct:      0.10,
		BurnTrigger:         10,
		Prize1stPct:         0.10,
		Prize2ndPct:         0.06,
		Prize3rdPct:         0.04,
		MaxWinners:          3,
	}
}

func activeSession(level int) *Session {
	// last_shot_at в прошлом, чтобы анти-чит не мешал
	past := time.Now().Add(-5 * time.Second)
	return &Session{
		ID:           1,
		PlayerID:     10,
		SeasonID:     7,
		CurrentLevel: level,
		SessionHash:  "abc123",
		LastShotAt:   &past,
	}
}

func newTestService(store *mockStore, ledger *mockLedger) (*Service, *mockActivity) {
	activity := &mockActivity{}
	dir := &mockDirectory{player: &players.Player{ID: 10, Username: "robin"}}
	return NewService(store, ledger, dir, activity, testConfig()), activity
}

func TestStartSession(t *testing.T) {
	store := &mockStore{}
	svc, _ := newTestService(store, &mockLedger{})

	result, err := svc.StartSession(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, int64(42), result.SessionID)
	assert.Equal(t, int64(7), result.SeasonID)
	assert.Equal(t, 1.0, result.Fee)
	// Хэш — 16 байт в hex
	assert.Len(t, result.SessionHash, 32)
	assert.Equal(t, 1, store.createdSessions)
}

func TestStartSession_SplitsFeeInSameWrite(t *testing.T) {
	store := &mockStore{}
	svc, _ := newTestService(store, &mockLedger{})

	_, err := svc.StartSession(context.Background(), 10)
	require.NoError(t, err)

	// Доли комиссии уходят в хранилище вместе со вставкой сессии —
	// одна транзакция, 70/20, операционная доля мимо сезона
	assert.InDelta(t, 1.0, store.createdFee, 1e-9)
	assert.InDelta(t, 0.70, store.createdPrizeAdd, 1e-9)
	assert.InDelta(t, 0.20, store.createdBurnAdd, 1e-9)
}

func TestStartSession_UnknownPlayer(t *testing.T) {
	store := &mockStore{}
	svc, _ := newTestService(store, &mockLedger{})

	_, err := svc.StartSession(context.Background(), 999)
	assert.ErrorIs(t, err, common.ErrPlayerNotFound)
	assert.Zero(t, store.createdSessions)
}

func TestSubmitShot_InvalidSession(t *testing.T) {
	store := &mockStore{session: activeSession(5)}
	svc, _ := newTestService(store, &mockLedger{})

	_, err := svc.SubmitShot(context.Background(), ShotRequest{
		SessionID: 1, SessionHash: "wrong-hash", Level: 5, Hit: true,
	})
	assert.ErrorIs(t, err, common.ErrInvalidSession)
	assert.Zero(t, store.statsCalls, "невалидный выстрел не должен попадать в статистику")
}

func TestSubmitShot_AlreadyCompleted(t *testing.T) {
	sess := activeSession(35)
	sess.Completed = true
	store := &mockStore{session: sess}
	svc, _ := newTestService(store, &mockLedger{})

	_, err := svc.SubmitShot(context.Background(), ShotRequest{
		SessionID: 1, SessionHash: "abc123", Level: 35, Hit: true,
	})
	assert.ErrorIs(t, err, common.ErrSessionCompleted)
}

func TestSubmitShot_FinishedByMiss(t *testing.T) {
	sess := activeSession(12)
	now := time.Now()
	sess.FinishedAt = &now
	store := &mockStore{session: sess}
	svc, _ := newTestService(store, &mockLedger{})

	_, err := svc.SubmitShot(context.Background(), ShotRequest{
		SessionID: 1, SessionHash: "abc123", Level: 12, Hit: true,
	})
	assert.ErrorIs(t, err, common.ErrSessionCompleted)
}

func TestSubmitShot_WrongLevel(t *testing.T) {
	store := &mockStore{session: activeSession(5)}
	svc, _ := newTestService(store, &mockLedger{})

	for _, level := range []int{4, 6, 1, 35} {
		_, err := svc.SubmitShot(context.Background(), ShotRequest{
			SessionID: 1, SessionHash: "abc123", Level: level, Hit: true,
		})
		assert.ErrorIs(t, err, common.ErrWrongLevel, "уровень %d", level)
	}
	assert.Zero(t, store.advanceCalls, "несовпавший уровень не должен менять сессию")
}

func TestSubmitShot_TooFast(t *testing.T) {
	sess := activeSession(5)
	justNow := time.Now().Add(-100 * time.Millisecond)
	sess.LastShotAt = &justNow
	store := &mockStore{session: sess}
	svc, _ := newTestService(store, &mockLedger{})

	_, err := svc.SubmitShot(context.Background(), ShotRequest{
		SessionID: 1, SessionHash: "abc123", Level: 5, Hit: true,
	})
	assert.ErrorIs(t, err, common.ErrTooFast)
	assert.Zero(t, store.advanceCalls)
}

func TestSubmitShot_FirstShotNoTimestamp(t *testing.T) {
	sess := activeSession(1)
	sess.LastShotAt = nil
	store := &mockStore{session: sess}
	svc, _ := newTestService(store, &mockLedger{})

	result, err := svc.SubmitShot(context.Background(), ShotRequest{
		SessionID: 1, SessionHash: "abc123", Level: 1, Hit: true,
	})
	require.NoError(t, err, "первый выстрел не должен упираться в анти-чит")
	assert.True(t, result.Success)
}

func TestSubmitShot_HitAdvances(t *testing.T) {
	store := &mockStore{session: activeSession(5)}
	svc, activity := newTestService(store, &mockLedger{})

	result, err := svc.SubmitShot(context.Background(), ShotRequest{
		SessionID: 1, SessionHash: "abc123", Level: 5, Hit: true,
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	require.NotNil(t, result.NextLevel)
	assert.Equal(t, 6, *result.NextLevel)
	assert.False(t, result.GameOver)
	assert.Equal(t, 1, store.statsCalls)
	assert.True(t, store.statsHit)
	assert.False(t, store.advanceComplete)
	assert.Equal(t, []string{"hit"}, activity.types)
}

func TestSubmitShot_FinalHitCompletes(t *testing.T) {
	store := &mockStore{session: activeSession(35)}
	ledger := &mockLedger{award: &season.Award{Position: 1, Prize: 7.0}}
	svc, _ := newTestService(store, ledger)

	result, err := svc.SubmitShot(context.Background(), ShotRequest{
		SessionID: 1, SessionHash: "abc123", Level: 35, Hit: true,
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.True(t, result.GameOver)
	assert.True(t, result.Completed)
	assert.Equal(t, "completed", result.Reason)
	require.NotNil(t, result.Position)
	assert.Equal(t, 1, *result.Position)
	require.NotNil(t, result.Prize)
	assert.Equal(t, 7.0, *result.Prize)
	assert.Nil(t, result.NextLevel)
	assert.True(t, store.advanceComplete)
	assert.Equal(t, 1, ledger.completions)
}

func TestSubmitShot_FinalHitNoSpotsLeft(t *testing.T) {
	store := &mockStore{session: activeSession(35)}
	ledger := &mockLedger{award: nil} // призовые места разыграны
	svc, _ := newTestService(store, ledger)

	result, err := svc.SubmitShot(context.Background(), ShotRequest{
		SessionID: 1, SessionHash: "abc123", Level: 35, Hit: true,
	})
	require.NoError(t, err)

	assert.True(t, result.Completed)
	assert.Nil(t, result.Position)
	assert.Nil(t, result.Prize)
}

func TestSubmitShot_MissStrictModeTerminal(t *testing.T) {
	store := &mockStore{session: activeSession(5)}
	svc, activity := newTestService(store, &mockLedger{})

	// Без livesLeft промах сразу завершает игру
	result, err := svc.SubmitShot(context.Background(), ShotRequest{
		SessionID: 1, SessionHash: "abc123", Level: 5, Hit: false,
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.True(t, result.GameOver)
	assert.Equal(t, "miss", result.Reason)
	assert.True(t, store.missTerminal)
	assert.Equal(t, []string{"miss"}, activity.types)
	assert.Equal(t, []string{"Game over"}, activity.details)
}

func TestSubmitShot_MissWithLivesLeft(t *testing.T) {
	store := &mockStore{session: activeSession(5)}
	svc, activity := newTestService(store, &mockLedger{})

	lives := 2
	result, err := svc.SubmitShot(context.Background(), ShotRequest{
		SessionID: 1, SessionHash: "abc123", Level: 5, Hit: false, LivesLeft: &lives,
	})
	require.NoError(t, err)

	assert.False(t, result.GameOver, "с оставшимися жизнями игра продолжается")
	assert.False(t, store.missTerminal)
	require.NotNil(t, result.LivesLeft)
	assert.Equal(t, 2, *result.LivesLeft)
	assert.Equal(t, []string{"Lost a life (2 left)"}, activity.details)

	// Сессия осталась на том же уровне
	assert.Equal(t, 5, store.session.CurrentLevel)
	assert.Nil(t, store.session.FinishedAt)
}

func TestSubmitShot_MissZeroLivesTerminal(t *testing.T) {
	store := &mockStore{session: activeSession(5)}
	svc, activity := newTestService(store, &mockLedger{})

	lives := 0
	result, err := svc.SubmitShot(context.Background(), ShotRequest{
		SessionID: 1, SessionHash: "abc123", Level: 5, Hit: false, LivesLeft: &lives,
	})
	require.NoError(t, err)

	assert.True(t, result.GameOver)
	assert.True(t, store.missTerminal)
	assert.Equal(t, []string{"Game over (0 lives)"}, activity.details)
}

func TestSubmitShot_MissCountsInStats(t *testing.T) {
	store := &mockStore{session: activeSession(5)}
	svc, _ := newTestService(store, &mockLedger{})

	_, err := svc.SubmitShot(context.Background(), ShotRequest{
		SessionID: 1, SessionHash: "abc123", Level: 5, Hit: false,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, store.statsCalls, "промах тоже уходит в глобальную статистику")
	assert.False(t, store.statsHit)
}

func TestLevelConfig_AppliesStats(t *testing.T) {
	store := &mockStore{stats: &LevelStats{Level: 10, TotalAttempts: 100, SuccessRate: 0.8}}
	svc, _ := newTestService(store, &mockLedger{})

	cfg, err := svc.LevelConfig(context.Background(), 10)
	require.NoError(t, err)

	base, _ := BaseLevelConfig(10, 35)
	assert.Less(t, cfg.TargetSize, base.TargetSize, "часто проходимый уровень должен ужесточиться")
	assert.Equal(t, 0.8, cfg.SuccessRate)
}

func TestLevelConfig_InvalidLevel(t *testing.T) {
	svc, _ := newTestService(&mockStore{}, &mockLedger{})

	_, err := svc.LevelConfig(context.Background(), 0)
	assert.ErrorIs(t, err, common.ErrInvalidLevel)
}

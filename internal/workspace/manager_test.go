package workspace

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodflow/backend/internal/logging"
	"moodflow/backend/internal/model"
	"moodflow/backend/internal/timer"
)

type memoryStore struct {
	mu        sync.Mutex
	created   []model.NewSession
	closed    []model.SessionClose
	createErr error
}

func (s *memoryStore) CreateSession(_ context.Context, session model.NewSession) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return "", s.createErr
	}
	s.created = append(s.created, session)
	return string(session.MoodType) + "-session", nil
}

func (s *memoryStore) CloseSession(_ context.Context, close model.SessionClose) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = append(s.closed, close)
	return nil
}

func newTestManager(store *memoryStore) *Manager {
	return NewManager(store, Config{
		Durations:    timer.Durations{Work: 3 * time.Second, Break: time.Second},
		TickInterval: time.Millisecond,
		IdleTTL:      time.Minute,
		NoticeLimit:  2,
	}, logging.Discard())
}

func TestGetReturnsSameWorkspace(t *testing.T) {
	m := newTestManager(&memoryStore{})
	defer m.Close(context.Background())

	first, err := m.Get("user-1")
	require.NoError(t, err)
	second, err := m.Get("user-1")
	require.NoError(t, err)
	other, err := m.Get("user-2")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
	assert.Equal(t, 2, m.Len())
}

func TestStartingTimerMarksTimerUsed(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(&memoryStore{})
	defer m.Close(ctx)

	ws, err := m.Get("user-1")
	require.NoError(t, err)
	require.True(t, ws.Tracker.StartSession(ctx, model.MoodCalm))

	ws.Timer().Toggle()
	assert.True(t, ws.Tracker.Status().TimerUsed)
}

func TestRemountTimerStartsFresh(t *testing.T) {
	m := newTestManager(&memoryStore{})
	defer m.Close(context.Background())

	ws, err := m.Get("user-1")
	require.NoError(t, err)
	old := ws.Timer()
	events := old.Subscribe(4)
	old.Start()

	fresh := ws.RemountTimer()

	assert.NotSame(t, old, fresh)
	assert.Same(t, fresh, ws.Timer())
	assert.False(t, old.Running())
	assert.Equal(t, timer.State{Minutes: 0, Seconds: 3}, fresh.Snapshot().State)
	for range events {
	}
}

func TestEvictIdleEndsSessionAndStopsTimer(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{}
	m := newTestManager(store)
	defer m.Close(ctx)

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	ws, err := m.Get("user-1")
	require.NoError(t, err)
	ws.Tracker.StartSession(ctx, model.MoodTired)
	ws.Timer().Start()
	ws.SetTheme(model.Theme{Mood: model.MoodTired})

	now = now.Add(30 * time.Second)
	assert.Zero(t, m.EvictIdle(ctx))

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, m.EvictIdle(ctx))
	assert.Zero(t, m.Len())
	assert.False(t, ws.Timer().Running())
	assert.Equal(t, model.Theme{}, ws.Theme())
	require.Len(t, store.closed, 1)
	assert.Equal(t, "tired-session", store.closed[0].SessionID)
}

func TestNoticeFeedIsBoundedAndDrained(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(&memoryStore{createErr: errors.New("down")})
	defer m.Close(ctx)

	ws, err := m.Get("user-1")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		ws.Tracker.StartSession(ctx, model.MoodCalm)
	}

	notices := ws.DrainNotices()
	assert.Len(t, notices, 2)
	assert.Equal(t, "session_start_failed", notices[0].Code)
	assert.Empty(t, ws.DrainNotices())
}

func TestCloseRejectsNewWorkspaces(t *testing.T) {
	store := &memoryStore{}
	m := newTestManager(store)

	ws, err := m.Get("user-1")
	require.NoError(t, err)
	ws.Tracker.StartSession(context.Background(), model.MoodExcited)

	m.Close(context.Background())
	m.Close(context.Background())

	_, err = m.Get("user-1")
	assert.ErrorIs(t, err, ErrClosed)
	assert.Len(t, store.closed, 1)
}

func TestRunStopsWithContext(t *testing.T) {
	m := newTestManager(&memoryStore{})
	m.config.SweepInterval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

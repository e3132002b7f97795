package workspace

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"moodflow/backend/internal/timer"
	"moodflow/backend/internal/tracker"
)

var ErrClosed = errors.New("workspace manager closed")

const defaultNoticeLimit = 20

type Config struct {
	Durations     timer.Durations
	TickInterval  time.Duration
	IdleTTL       time.Duration
	SweepInterval time.Duration
	NoticeLimit   int
}

type Manager struct {
	mu         sync.Mutex
	workspaces map[string]*Workspace
	store      tracker.Store
	config     Config
	logger     *slog.Logger
	now        func() time.Time
	closed     bool
}

func NewManager(store tracker.Store, config Config, logger *slog.Logger) *Manager {
	if config.IdleTTL <= 0 {
		config.IdleTTL = 2 * time.Hour
	}
	if config.SweepInterval <= 0 {
		config.SweepInterval = 5 * time.Minute
	}
	if config.NoticeLimit <= 0 {
		config.NoticeLimit = defaultNoticeLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		workspaces: make(map[string]*Workspace),
		store:      store,
		config:     config,
		logger:     logger,
		now:        time.Now,
	}
}

// Get returns the user's workspace, creating it on first use.
func (m *Manager) Get(userID string) (*Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}

	now := m.now()
	if ws, ok := m.workspaces[userID]; ok {
		ws.touch(now)
		return ws, nil
	}

	ws := &Workspace{
		UserID:      userID,
		noticeLimit: m.config.NoticeLimit,
		lastSeen:    now,
	}
	ws.Tracker = tracker.New(
		userID,
		m.store,
		tracker.WithNotifier(ws),
		tracker.WithLogger(m.logger.With("component", "tracker")),
	)
	ws.newTimer = func() *timer.Runner {
		runner := timer.NewRunner(m.config.Durations, timer.Options{TickInterval: m.config.TickInterval})
		runner.OnStart(func() {
			ws.Tracker.UpdateActivity(nil, tracker.Bool(true))
		})
		return runner
	}
	ws.timer = ws.newTimer()

	m.workspaces[userID] = ws
	m.logger.Debug("workspace opened", "user_id", userID)
	return ws, nil
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.workspaces)
}

// Run evicts idle workspaces until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.EvictIdle(ctx)
		}
	}
}

// EvictIdle tears down workspaces not used within the idle TTL, ending their
// open sessions.
func (m *Manager) EvictIdle(ctx context.Context) int {
	cutoff := m.now().Add(-m.config.IdleTTL)

	m.mu.Lock()
	var idle []*Workspace
	for userID, ws := range m.workspaces {
		if ws.idleSince(cutoff) {
			idle = append(idle, ws)
			delete(m.workspaces, userID)
		}
	}
	m.mu.Unlock()

	for _, ws := range idle {
		ws.close(ctx)
		m.logger.Info("workspace evicted", "user_id", ws.UserID)
	}
	return len(idle)
}

// Close ends every open session and stops every timer. Get fails afterwards.
func (m *Manager) Close(ctx context.Context) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	workspaces := m.workspaces
	m.workspaces = make(map[string]*Workspace)
	m.mu.Unlock()

	for _, ws := range workspaces {
		ws.close(ctx)
	}
	m.logger.Info("workspaces closed", "count", len(workspaces))
}

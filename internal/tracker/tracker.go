// Package tracker bounds the lifetime of a mood session. Persistence is
// delegated to a Store; elapsed time and activity flags are tracked locally.
package tracker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"moodflow/backend/internal/model"
)

// Store persists session records.
type Store interface {
	CreateSession(ctx context.Context, session model.NewSession) (string, error)
	CloseSession(ctx context.Context, close model.SessionClose) error
}

// Notifier receives store failures so they can be shown to the user.
type Notifier interface {
	Notify(notice Notice)
}

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

type Notice struct {
	Level   Level     `json:"level"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Status is a snapshot of the tracker.
type Status struct {
	SessionID   string         `json:"sessionId,omitempty"`
	MoodType    model.MoodType `json:"moodType,omitempty"`
	StartedAt   *time.Time     `json:"startedAt,omitempty"`
	IsTracking  bool           `json:"isTracking"`
	MusicPlayed bool           `json:"musicPlayed"`
	TimerUsed   bool           `json:"timerUsed"`
}

type Option func(*Tracker)

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

func WithNotifier(notifier Notifier) Option {
	return func(t *Tracker) {
		t.notifier = notifier
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}

// Tracker holds at most one open session for one user.
type Tracker struct {
	mu       sync.Mutex
	userID   string
	store    Store
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time

	sessionID   string
	mood        model.MoodType
	startedAt   time.Time
	musicPlayed bool
	timerUsed   bool
}

func New(userID string, store Store, opts ...Option) *Tracker {
	t := &Tracker{
		userID: userID,
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// StartSession opens a session for mood. An already open session is ended
// first. It reports whether tracking is active afterwards.
func (t *Tracker) StartSession(ctx context.Context, mood model.MoodType) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.trackingLocked() {
		t.endLocked(ctx)
	}
	return t.startLocked(ctx, mood)
}

// EndSession closes the open session. It returns nil without contacting the
// store when nothing is being tracked.
func (t *Tracker) EndSession(ctx context.Context) *model.ClosedSession {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.endLocked(ctx)
}

// SelectMood moves the tracker to mood, or to no mood when mood is nil.
// Re-selecting the mood of the open session changes nothing.
func (t *Tracker) SelectMood(ctx context.Context, mood *model.MoodType) *model.ClosedSession {
	t.mu.Lock()
	defer t.mu.Unlock()

	if mood != nil && t.trackingLocked() && t.mood == *mood {
		return nil
	}

	closed := t.endLocked(ctx)
	if mood != nil {
		t.startLocked(ctx, *mood)
	}
	return closed
}

// UpdateActivity overwrites only the flags that are provided.
func (t *Tracker) UpdateActivity(musicPlayed, timerUsed *bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if musicPlayed != nil {
		t.musicPlayed = *musicPlayed
	}
	if timerUsed != nil {
		t.timerUsed = *timerUsed
	}
}

func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	status := Status{
		MusicPlayed: t.musicPlayed,
		TimerUsed:   t.timerUsed,
	}
	if t.trackingLocked() {
		startedAt := t.startedAt
		status.SessionID = t.sessionID
		status.MoodType = t.mood
		status.StartedAt = &startedAt
		status.IsTracking = true
	}
	return status
}

func (t *Tracker) trackingLocked() bool {
	return t.sessionID != "" && !t.startedAt.IsZero()
}

func (t *Tracker) startLocked(ctx context.Context, mood model.MoodType) bool {
	startedAt := t.now().UTC()
	sessionID, err := t.store.CreateSession(ctx, model.NewSession{
		UserID:    t.userID,
		MoodType:  mood,
		StartedAt: startedAt,
	})
	if err != nil {
		t.logger.Error("start session failed", "user_id", t.userID, "mood", mood, "error", err)
		t.notify(LevelError, "session_start_failed", "could not start your session")
		return false
	}

	t.sessionID = sessionID
	t.mood = mood
	t.startedAt = startedAt
	t.musicPlayed = false
	t.timerUsed = false
	t.logger.Debug("session started", "user_id", t.userID, "session_id", sessionID, "mood", mood)
	return true
}

func (t *Tracker) endLocked(ctx context.Context) *model.ClosedSession {
	if !t.trackingLocked() {
		return nil
	}

	endedAt := t.now().UTC()
	duration := int(endedAt.Sub(t.startedAt) / time.Second)
	if duration < 0 {
		duration = 0
	}
	closed := &model.ClosedSession{
		SessionID:       t.sessionID,
		MoodType:        t.mood,
		StartedAt:       t.startedAt,
		EndedAt:         endedAt,
		DurationSeconds: duration,
		MusicPlayed:     t.musicPlayed,
		TimerUsed:       t.timerUsed,
	}

	err := t.store.CloseSession(ctx, model.SessionClose{
		SessionID:       closed.SessionID,
		EndedAt:         endedAt,
		DurationSeconds: duration,
		MusicPlayed:     closed.MusicPlayed,
		TimerUsed:       closed.TimerUsed,
	})
	if err != nil {
		t.logger.Error("end session failed", "user_id", t.userID, "session_id", closed.SessionID, "error", err)
		t.notify(LevelError, "session_end_failed", "could not save your session")
	} else {
		closed.Persisted = true
		t.logger.Debug("session ended", "user_id", t.userID, "session_id", closed.SessionID, "duration_seconds", duration)
	}

	t.sessionID = ""
	t.mood = ""
	t.startedAt = time.Time{}
	return closed
}

func (t *Tracker) notify(level Level, code, message string) {
	if t.notifier == nil {
		return
	}
	t.notifier.Notify(Notice{
		Level:   level,
		Code:    code,
		Message: message,
		At:      t.now().UTC(),
	})
}

// Bool returns a pointer to v, for UpdateActivity arguments.
func Bool(v bool) *bool {
	return &v
}

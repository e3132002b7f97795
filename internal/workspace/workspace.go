// Package workspace keeps the live per-user study state: one timer runner,
// one session tracker and the active theme.
package workspace

import (
	"context"
	"sync"
	"time"

	"moodflow/backend/internal/model"
	"moodflow/backend/internal/timer"
	"moodflow/backend/internal/tracker"
)

type Workspace struct {
	UserID  string
	Tracker *tracker.Tracker

	mu          sync.Mutex
	timer       *timer.Runner
	newTimer    func() *timer.Runner
	theme       model.Theme
	notices     []tracker.Notice
	noticeLimit int
	lastSeen    time.Time
}

// Timer returns the mounted timer runner.
func (w *Workspace) Timer() *timer.Runner {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.timer
}

// RemountTimer tears down the current runner and mounts a fresh one in the
// initial state. Subscribers of the old runner see their channel closed.
func (w *Workspace) RemountTimer() *timer.Runner {
	fresh := w.newTimer()
	w.mu.Lock()
	old := w.timer
	w.timer = fresh
	w.mu.Unlock()
	if old != nil {
		old.Close()
	}
	return fresh
}

func (w *Workspace) Theme() model.Theme {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.theme
}

func (w *Workspace) SetTheme(theme model.Theme) {
	w.mu.Lock()
	w.theme = theme
	w.mu.Unlock()
}

// Notify implements tracker.Notifier. The oldest notice is dropped once the
// feed is full.
func (w *Workspace) Notify(notice tracker.Notice) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.noticeLimit > 0 && len(w.notices) >= w.noticeLimit {
		w.notices = w.notices[1:]
	}
	w.notices = append(w.notices, notice)
}

// DrainNotices returns pending notices and clears the feed.
func (w *Workspace) DrainNotices() []tracker.Notice {
	w.mu.Lock()
	defer w.mu.Unlock()
	notices := w.notices
	w.notices = nil
	if notices == nil {
		notices = []tracker.Notice{}
	}
	return notices
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

func (w *Workspace) idleSince(cutoff time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen.Before(cutoff)
}

func (w *Workspace) close(ctx context.Context) *model.ClosedSession {
	w.Timer().Close()
	closed := w.Tracker.EndSession(ctx)
	w.SetTheme(model.Theme{})
	return closed
}

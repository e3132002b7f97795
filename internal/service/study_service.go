package service

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"moodflow/backend/internal/catalog"
	apperrors "moodflow/backend/internal/errors"
	"moodflow/backend/internal/model"
	"moodflow/backend/internal/timer"
	"moodflow/backend/internal/tracker"
	"moodflow/backend/internal/workspace"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
	timerEventBuffer    = 16
)

// SessionHistory lists persisted sessions.
type SessionHistory interface {
	ListSessions(ctx context.Context, userID string, limit int) ([]model.UserSession, error)
}

type StudyService struct {
	workspaces *workspace.Manager
	catalog    *catalog.Catalog
	sessions   SessionHistory
	logger     *slog.Logger

	randMu sync.Mutex
	random *rand.Rand
}

type SessionView struct {
	Session tracker.Status `json:"session"`
	Theme   model.Theme    `json:"theme"`
	Mood    *model.Mood    `json:"mood,omitempty"`
}

// MoodChange is the result of selecting a mood or ending a session.
// PromptRating is set when an ended session should be offered for rating.
type MoodChange struct {
	SessionView
	EndedSession *model.ClosedSession `json:"endedSession,omitempty"`
	PromptRating bool                 `json:"promptRating"`
}

func NewStudyService(
	workspaces *workspace.Manager,
	moodCatalog *catalog.Catalog,
	sessions SessionHistory,
	logger *slog.Logger,
) *StudyService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StudyService{
		workspaces: workspaces,
		catalog:    moodCatalog,
		sessions:   sessions,
		logger:     logger,
		random:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *StudyService) Moods() []model.Mood {
	return s.catalog.Moods()
}

func (s *StudyService) RandomQuote() (*model.Quote, *apperrors.APIError) {
	s.randMu.Lock()
	quote, ok := s.catalog.RandomQuote(s.random)
	s.randMu.Unlock()
	if !ok {
		return nil, apperrors.NotFound("quote_not_found", "no quotes available")
	}
	return &quote, nil
}

func (s *StudyService) SessionState(userID string) (*SessionView, *apperrors.APIError) {
	ws, apiErr := s.workspace(userID)
	if apiErr != nil {
		return nil, apiErr
	}
	view := s.view(ws)
	return &view, nil
}

// SelectMood switches the workspace to mood, or leaves mood mode when mood is
// nil. Selecting the active mood again changes nothing.
func (s *StudyService) SelectMood(ctx context.Context, userID string, mood *string) (*MoodChange, *apperrors.APIError) {
	var selected *model.Mood
	if mood != nil {
		found, ok := s.catalog.Mood(model.MoodType(*mood))
		if !ok {
			return nil, apperrors.BadRequest("invalid_mood", "mood must be one of calm, stressed, excited, tired")
		}
		selected = &found
	}

	ws, apiErr := s.workspace(userID)
	if apiErr != nil {
		return nil, apiErr
	}

	current := ws.Theme().Mood
	if selected != nil && current == selected.ID {
		return &MoodChange{SessionView: s.view(ws)}, nil
	}
	if selected == nil && current == "" {
		return &MoodChange{SessionView: s.view(ws)}, nil
	}

	var moodID *model.MoodType
	if selected != nil {
		moodID = &selected.ID
	}
	ended := ws.Tracker.SelectMood(ctx, moodID)
	ws.RemountTimer()

	if selected != nil {
		ws.SetTheme(model.ThemeFor(*selected))
		s.logger.Info("mood selected", "user_id", userID, "mood", selected.ID)
	} else {
		ws.SetTheme(model.Theme{})
		s.logger.Info("mood cleared", "user_id", userID)
	}

	return &MoodChange{
		SessionView:  s.view(ws),
		EndedSession: ended,
	}, nil
}

// EndSession closes the open session and leaves mood mode. The rating prompt
// is requested only when a session was actually open.
func (s *StudyService) EndSession(ctx context.Context, userID string) (*MoodChange, *apperrors.APIError) {
	ws, apiErr := s.workspace(userID)
	if apiErr != nil {
		return nil, apiErr
	}

	ended := ws.Tracker.EndSession(ctx)
	if ws.Theme().Mood != "" {
		ws.RemountTimer()
	}
	ws.SetTheme(model.Theme{})

	if ended != nil {
		s.logger.Info("session ended",
			"user_id", userID,
			"session_id", ended.SessionID,
			"duration_seconds", ended.DurationSeconds,
			"persisted", ended.Persisted,
		)
	}

	return &MoodChange{
		SessionView:  s.view(ws),
		EndedSession: ended,
		PromptRating: ended != nil,
	}, nil
}

func (s *StudyService) UpdateActivity(userID string, musicPlayed, timerUsed *bool) (*SessionView, *apperrors.APIError) {
	ws, apiErr := s.workspace(userID)
	if apiErr != nil {
		return nil, apiErr
	}
	ws.Tracker.UpdateActivity(musicPlayed, timerUsed)
	view := s.view(ws)
	return &view, nil
}

func (s *StudyService) History(ctx context.Context, userID string, limit int) ([]model.UserSession, *apperrors.APIError) {
	if limit <= 0 || limit > maxHistoryLimit {
		limit = defaultHistoryLimit
	}
	sessions, err := s.sessions.ListSessions(ctx, userID, limit)
	if err != nil {
		s.logger.Error("list sessions failed", "user_id", userID, "error", err)
		return nil, apperrors.Internal("failed to get history")
	}
	return sessions, nil
}

func (s *StudyService) TimerState(userID string) (*timer.Snapshot, *apperrors.APIError) {
	ws, apiErr := s.workspace(userID)
	if apiErr != nil {
		return nil, apiErr
	}
	snapshot := ws.Timer().Snapshot()
	return &snapshot, nil
}

func (s *StudyService) ToggleTimer(userID string) (*timer.Snapshot, *apperrors.APIError) {
	ws, apiErr := s.workspace(userID)
	if apiErr != nil {
		return nil, apiErr
	}
	snapshot := ws.Timer().Toggle()
	return &snapshot, nil
}

func (s *StudyService) ResetTimer(userID string) (*timer.Snapshot, *apperrors.APIError) {
	ws, apiErr := s.workspace(userID)
	if apiErr != nil {
		return nil, apiErr
	}
	snapshot := ws.Timer().Reset()
	return &snapshot, nil
}

// SubscribeTimer returns the current snapshot, a stream of timer events and a
// function that ends the subscription. The stream is closed when the timer is
// remounted or torn down.
func (s *StudyService) SubscribeTimer(userID string) (timer.Snapshot, <-chan timer.Event, func(), *apperrors.APIError) {
	ws, apiErr := s.workspace(userID)
	if apiErr != nil {
		return timer.Snapshot{}, nil, nil, apiErr
	}
	runner := ws.Timer()
	events := runner.Subscribe(timerEventBuffer)
	return runner.Snapshot(), events, func() { runner.Unsubscribe(events) }, nil
}

func (s *StudyService) DrainNotifications(userID string) ([]tracker.Notice, *apperrors.APIError) {
	ws, apiErr := s.workspace(userID)
	if apiErr != nil {
		return nil, apiErr
	}
	return ws.DrainNotices(), nil
}

func (s *StudyService) workspace(userID string) (*workspace.Workspace, *apperrors.APIError) {
	ws, err := s.workspaces.Get(userID)
	if errors.Is(err, workspace.ErrClosed) {
		return nil, apperrors.Unavailable("shutting_down", "server is shutting down")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to open workspace")
	}
	return ws, nil
}

func (s *StudyService) view(ws *workspace.Workspace) SessionView {
	view := SessionView{
		Session: ws.Tracker.Status(),
		Theme:   ws.Theme(),
	}
	if view.Theme.Mood != "" {
		if mood, ok := s.catalog.Mood(view.Theme.Mood); ok {
			view.Mood = &mood
		}
	}
	return view
}

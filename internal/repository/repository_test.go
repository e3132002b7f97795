package repository_test

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodflow/backend/internal/db"
	"moodflow/backend/internal/model"
	"moodflow/backend/internal/repository"
)

func setupDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = database.Close()
	})

	_, currentFile, _, _ := runtime.Caller(0)
	migrationsDir := filepath.Join(filepath.Dir(currentFile), "..", "..", "migrations")
	require.NoError(t, db.RunMigrations(database, migrationsDir))
	return database
}

func createUser(t *testing.T, users *repository.UserRepository, email string) *model.User {
	t.Helper()
	now := time.Now().UTC()
	user := &model.User{ID: uuid.NewString(), Email: email, PasswordHash: "x", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	database := setupDB(t)
	user := createUser(t, repository.NewUserRepository(database), "a@example.com")
	sessions := repository.NewSessionRepository(database)

	startedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	id, err := sessions.CreateSession(ctx, model.NewSession{UserID: user.ID, MoodType: model.MoodCalm, StartedAt: startedAt})
	require.NoError(t, err)

	open, err := sessions.GetSession(ctx, id)
	require.NoError(t, err)
	assert.True(t, open.Open())
	assert.Equal(t, startedAt, open.StartedAt)
	assert.False(t, open.MusicPlayed)

	endedAt := startedAt.Add(125 * time.Second)
	require.NoError(t, sessions.CloseSession(ctx, model.SessionClose{
		SessionID: id, EndedAt: endedAt, DurationSeconds: 125, MusicPlayed: true, TimerUsed: true,
	}))

	closed, err := sessions.GetSession(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, closed.EndedAt)
	assert.Equal(t, endedAt, *closed.EndedAt)
	assert.Equal(t, 125, closed.DurationSeconds)
	assert.True(t, closed.MusicPlayed)
	assert.True(t, closed.TimerUsed)

	err = sessions.CloseSession(ctx, model.SessionClose{SessionID: id, EndedAt: endedAt})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	list, err := sessions.ListSessions(ctx, user.ID, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGetSessionNotFound(t *testing.T) {
	database := setupDB(t)
	_, err := repository.NewSessionRepository(database).GetSession(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserLookup(t *testing.T) {
	ctx := context.Background()
	users := repository.NewUserRepository(setupDB(t))
	user := createUser(t, users, "b@example.com")

	byEmail, err := users.GetByEmail(ctx, "b@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = users.GetByID(ctx, "nobody")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	now := time.Now().UTC()
	duplicate := &model.User{ID: uuid.NewString(), Email: "b@example.com", PasswordHash: "x", CreatedAt: now, UpdatedAt: now}
	assert.ErrorIs(t, users.Create(ctx, duplicate), repository.ErrDuplicate)
}

func TestDailyHistoryGroupsByDayAndMood(t *testing.T) {
	ctx := context.Background()
	database := setupDB(t)
	users := repository.NewUserRepository(database)
	user := createUser(t, users, "c@example.com")
	other := createUser(t, users, "d@example.com")
	sessions := repository.NewSessionRepository(database)
	ratings := repository.NewRatingRepository(database)

	day1 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	closeAfter := func(userID string, mood model.MoodType, at time.Time, seconds int, rating int) {
		id, err := sessions.CreateSession(ctx, model.NewSession{UserID: userID, MoodType: mood, StartedAt: at})
		require.NoError(t, err)
		require.NoError(t, sessions.CloseSession(ctx, model.SessionClose{
			SessionID: id, EndedAt: at.Add(time.Duration(seconds) * time.Second), DurationSeconds: seconds,
		}))
		if rating > 0 {
			require.NoError(t, ratings.CreateRating(ctx, &model.MoodRating{
				ID: uuid.NewString(), SessionID: id, UserID: userID, MoodType: mood, Rating: rating, CreatedAt: at,
			}))
		}
	}

	closeAfter(user.ID, model.MoodCalm, day1, 600, 4)
	closeAfter(user.ID, model.MoodCalm, day1.Add(time.Hour), 300, 2)
	closeAfter(user.ID, model.MoodTired, day1, 60, 0)
	closeAfter(user.ID, model.MoodCalm, day2, 120, 5)
	closeAfter(user.ID, model.MoodCalm, day1.AddDate(0, 0, -30), 999, 1)
	closeAfter(other.ID, model.MoodCalm, day1, 777, 3)

	history, err := repository.NewAnalyticsRepository(database).DailyHistory(ctx, user.ID, day1, day2)
	require.NoError(t, err)

	assert.Equal(t, []model.MoodHistoryRow{
		{Date: "2026-03-01", MoodType: model.MoodCalm, SessionCount: 2, TotalDurationSeconds: 900, AverageRating: 3},
		{Date: "2026-03-01", MoodType: model.MoodTired, SessionCount: 1, TotalDurationSeconds: 60, AverageRating: 0},
		{Date: "2026-03-02", MoodType: model.MoodCalm, SessionCount: 1, TotalDurationSeconds: 120, AverageRating: 5},
	}, history)

	// A rating row carrying a different mood still counts toward its session's mood.
	strayID, err := sessions.CreateSession(ctx, model.NewSession{UserID: user.ID, MoodType: model.MoodTired, StartedAt: day2})
	require.NoError(t, err)
	require.NoError(t, sessions.CloseSession(ctx, model.SessionClose{SessionID: strayID, EndedAt: day2.Add(time.Minute), DurationSeconds: 60}))
	require.NoError(t, ratings.CreateRating(ctx, &model.MoodRating{
		ID: uuid.NewString(), SessionID: strayID, UserID: user.ID, MoodType: model.MoodExcited, Rating: 4, CreatedAt: day2,
	}))

	history, err = repository.NewAnalyticsRepository(database).DailyHistory(ctx, user.ID, day2, day2)
	require.NoError(t, err)
	assert.Equal(t, []model.MoodHistoryRow{
		{Date: "2026-03-02", MoodType: model.MoodCalm, SessionCount: 1, TotalDurationSeconds: 120, AverageRating: 5},
		{Date: "2026-03-02", MoodType: model.MoodTired, SessionCount: 1, TotalDurationSeconds: 60, AverageRating: 4},
	}, history)

	count, err := ratings.CountForSession(ctx, "missing")
	require.NoError(t, err)
	assert.Zero(t, count)
}

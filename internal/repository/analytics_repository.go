package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"moodflow/backend/internal/model"
)

const dayLayout = "2006-01-02"

type AnalyticsRepository struct {
	db *sqlx.DB
}

func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

type historyKey struct {
	day  string
	mood string
}

// DailyHistory aggregates a user's sessions per UTC day and mood for the
// inclusive day range [from, to]. Ratings are attributed to the day and mood
// of the session they rate.
func (r *AnalyticsRepository) DailyHistory(ctx context.Context, userID string, from, to time.Time) ([]model.MoodHistoryRow, error) {
	fromDay := from.UTC().Format(dayLayout)
	toDay := to.UTC().Format(dayLayout)

	rows := make(map[historyKey]*model.MoodHistoryRow)
	ratings := make(map[historyKey]float64)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return r.collectSessions(groupCtx, userID, fromDay, toDay, rows)
	})
	group.Go(func() error {
		return r.collectRatings(groupCtx, userID, fromDay, toDay, ratings)
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	history := make([]model.MoodHistoryRow, 0, len(rows))
	for key, row := range rows {
		row.AverageRating = ratings[key]
		history = append(history, *row)
	}
	sort.Slice(history, func(i, j int) bool {
		if history[i].Date != history[j].Date {
			return history[i].Date < history[j].Date
		}
		return history[i].MoodType < history[j].MoodType
	})
	return history, nil
}

func (r *AnalyticsRepository) collectSessions(ctx context.Context, userID, fromDay, toDay string, out map[historyKey]*model.MoodHistoryRow) error {
	rows, err := r.db.QueryContext(
		ctx,
		r.db.Rebind(`SELECT substr(started_at, 1, 10), mood_type, COUNT(1), COALESCE(SUM(duration_seconds), 0)
		 FROM user_sessions
		 WHERE user_id = ? AND substr(started_at, 1, 10) BETWEEN ? AND ?
		 GROUP BY substr(started_at, 1, 10), mood_type`),
		userID,
		fromDay,
		toDay,
	)
	if err != nil {
		return fmt.Errorf("aggregate sessions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row model.MoodHistoryRow
		var mood string
		if err := rows.Scan(&row.Date, &mood, &row.SessionCount, &row.TotalDurationSeconds); err != nil {
			return fmt.Errorf("scan session aggregate: %w", err)
		}
		row.MoodType = model.MoodType(mood)
		out[historyKey{day: row.Date, mood: mood}] = &row
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate session aggregates: %w", err)
	}
	return nil
}

func (r *AnalyticsRepository) collectRatings(ctx context.Context, userID, fromDay, toDay string, out map[historyKey]float64) error {
	rows, err := r.db.QueryContext(
		ctx,
		r.db.Rebind(`SELECT substr(s.started_at, 1, 10), s.mood_type, AVG(r.rating)
		 FROM mood_ratings r
		 JOIN user_sessions s ON s.id = r.session_id
		 WHERE s.user_id = ? AND substr(s.started_at, 1, 10) BETWEEN ? AND ?
		 GROUP BY substr(s.started_at, 1, 10), s.mood_type`),
		userID,
		fromDay,
		toDay,
	)
	if err != nil {
		return fmt.Errorf("aggregate ratings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var day, mood string
		var average float64
		if err := rows.Scan(&day, &mood, &average); err != nil {
			return fmt.Errorf("scan rating aggregate: %w", err)
		}
		out[historyKey{day: day, mood: mood}] = average
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate rating aggregates: %w", err)
	}
	return nil
}

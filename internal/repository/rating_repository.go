package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"moodflow/backend/internal/model"
)

type RatingRepository struct {
	db *sqlx.DB
}

func NewRatingRepository(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

func (r *RatingRepository) CreateRating(ctx context.Context, rating *model.MoodRating) error {
	var feedback interface{}
	if rating.FeedbackText != nil {
		feedback = *rating.FeedbackText
	}

	_, err := r.db.ExecContext(
		ctx,
		r.db.Rebind(`INSERT INTO mood_ratings (
			id, session_id, user_id, mood_type, rating, matched_need,
			helped_focus, feedback_text, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		rating.ID,
		rating.SessionID,
		rating.UserID,
		string(rating.MoodType),
		rating.Rating,
		rating.MatchedNeed,
		rating.HelpedFocus,
		feedback,
		formatTime(rating.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create rating: %w", err)
	}
	return nil
}

func (r *RatingRepository) CountForSession(ctx context.Context, sessionID string) (int, error) {
	var count int
	if err := r.db.GetContext(
		ctx,
		&count,
		r.db.Rebind(`SELECT COUNT(1) FROM mood_ratings WHERE session_id = ?`),
		sessionID,
	); err != nil {
		return 0, fmt.Errorf("count ratings: %w", err)
	}
	return count, nil
}

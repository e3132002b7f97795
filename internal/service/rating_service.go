package service

import (
	"context"
	"errors"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	apperrors "moodflow/backend/internal/errors"
	"moodflow/backend/internal/model"
	"moodflow/backend/internal/repository"
)

type RatingStore interface {
	CreateRating(ctx context.Context, rating *model.MoodRating) error
}

type SessionLookup interface {
	GetSession(ctx context.Context, sessionID string) (*model.UserSession, error)
}

type RatingService struct {
	ratings  RatingStore
	sessions SessionLookup
	logger   *slog.Logger
	now      func() time.Time
}

// RatingInput is a rating submission. MoodType is optional and must match the
// mood of the rated session when given.
type RatingInput struct {
	SessionID    string
	MoodType     string
	Rating       int
	MatchedNeed  *bool
	HelpedFocus  *bool
	FeedbackText string
}

func NewRatingService(ratings RatingStore, sessions SessionLookup, logger *slog.Logger) *RatingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RatingService{
		ratings:  ratings,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *RatingService) Submit(ctx context.Context, userID string, input RatingInput) (*model.MoodRating, *apperrors.APIError) {
	if apiErr := validateRating(input); apiErr != nil {
		return nil, apiErr
	}

	session, err := s.sessions.GetSession(ctx, input.SessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("session_not_found", "session not found")
	}
	if err != nil {
		s.logger.Error("load rated session failed", "session_id", input.SessionID, "error", err)
		return nil, apperrors.Internal("failed to load session")
	}
	if session.UserID != userID {
		return nil, apperrors.NotFound("session_not_found", "session not found")
	}

	mood := session.MoodType
	if input.MoodType != "" && model.MoodType(input.MoodType) != mood {
		return nil, apperrors.Validation("mood_mismatch", "mood does not match the rated session", map[string]string{
			"sessionMood": string(mood),
		})
	}

	rating := model.MoodRating{
		ID:          uuid.NewString(),
		SessionID:   session.ID,
		UserID:      userID,
		MoodType:    mood,
		Rating:      input.Rating,
		MatchedNeed: input.MatchedNeed != nil && *input.MatchedNeed,
		HelpedFocus: input.HelpedFocus != nil && *input.HelpedFocus,
		CreatedAt:   s.now().UTC(),
	}
	if input.FeedbackText != "" {
		feedback := input.FeedbackText
		rating.FeedbackText = &feedback
	}

	if err := s.ratings.CreateRating(ctx, &rating); err != nil {
		s.logger.Error("create rating failed", "session_id", session.ID, "error", err)
		return nil, apperrors.Internal("failed to submit feedback")
	}

	s.logger.Info("rating submitted", "user_id", userID, "session_id", session.ID, "rating", rating.Rating)
	return &rating, nil
}

func validateRating(input RatingInput) *apperrors.APIError {
	if input.Rating == 0 {
		return apperrors.Validation("rating_required", "please select a rating", nil)
	}
	if input.Rating < model.MinRating || input.Rating > model.MaxRating {
		return apperrors.Validation("invalid_rating", "rating must be between 1 and 5", map[string]int{
			"min": model.MinRating,
			"max": model.MaxRating,
		})
	}
	if utf8.RuneCountInString(input.FeedbackText) > model.MaxFeedbackTextRune {
		return apperrors.Validation("feedback_too_long", "feedback must be at most 500 characters", map[string]int{
			"max": model.MaxFeedbackTextRune,
		})
	}
	if input.MoodType != "" && !model.MoodType(input.MoodType).Valid() {
		return apperrors.Validation("invalid_mood", "mood must be one of calm, stressed, excited, tired", nil)
	}
	if input.SessionID == "" {
		return apperrors.Validation("session_required", "sessionId is required", nil)
	}
	return nil
}

package model

import "time"

const (
	MinRating           = 1
	MaxRating           = 5
	MaxFeedbackTextRune = 500
)

type MoodRating struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"sessionId"`
	UserID       string    `json:"userId"`
	MoodType     MoodType  `json:"moodType"`
	Rating       int       `json:"rating"`
	MatchedNeed  bool      `json:"matchedNeed"`
	HelpedFocus  bool      `json:"helpedFocus"`
	FeedbackText *string   `json:"feedbackText,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

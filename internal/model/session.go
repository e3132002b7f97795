package model

import "time"

type UserSession struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	MoodType        MoodType   `json:"moodType"`
	StartedAt       time.Time  `json:"startedAt"`
	EndedAt         *time.Time `json:"endedAt,omitempty"`
	DurationSeconds int        `json:"durationSeconds"`
	MusicPlayed     bool       `json:"musicPlayed"`
	TimerUsed       bool       `json:"timerUsed"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func (s UserSession) Open() bool {
	return s.EndedAt == nil
}

// NewSession is the create request sent to the session store.
type NewSession struct {
	UserID      string
	MoodType    MoodType
	StartedAt   time.Time
	MusicPlayed bool
	TimerUsed   bool
}

// SessionClose is the update-on-close request sent to the session store.
type SessionClose struct {
	SessionID       string
	EndedAt         time.Time
	DurationSeconds int
	MusicPlayed     bool
	TimerUsed       bool
}

// ClosedSession summarizes a session the tracker just ended.
type ClosedSession struct {
	SessionID       string    `json:"sessionId"`
	MoodType        MoodType  `json:"moodType"`
	StartedAt       time.Time `json:"startedAt"`
	EndedAt         time.Time `json:"endedAt"`
	DurationSeconds int       `json:"durationSeconds"`
	MusicPlayed     bool      `json:"musicPlayed"`
	TimerUsed       bool      `json:"timerUsed"`
	Persisted       bool      `json:"persisted"`
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"moodflow/backend/internal/model"
)

const sessionColumns = `id, user_id, mood_type, started_at, ended_at, duration_seconds,
	music_played, timer_used, created_at, updated_at`

// SessionRepository stores user_sessions rows. It satisfies tracker.Store.
type SessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) CreateSession(ctx context.Context, session model.NewSession) (string, error) {
	id := uuid.NewString()
	now := formatTime(time.Now())
	_, err := r.db.ExecContext(
		ctx,
		r.db.Rebind(`INSERT INTO user_sessions (
			id, user_id, mood_type, started_at, duration_seconds,
			music_played, timer_used, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		id,
		session.UserID,
		string(session.MoodType),
		formatTime(session.StartedAt),
		0,
		session.MusicPlayed,
		session.TimerUsed,
		now,
		now,
	)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return id, nil
}

// CloseSession records the end of an open session. Closing an unknown or
// already closed session returns ErrNotFound.
func (r *SessionRepository) CloseSession(ctx context.Context, close model.SessionClose) error {
	result, err := r.db.ExecContext(
		ctx,
		r.db.Rebind(`UPDATE user_sessions
		 SET ended_at = ?,
		     duration_seconds = ?,
		     music_played = ?,
		     timer_used = ?,
		     updated_at = ?
		 WHERE id = ? AND ended_at IS NULL`),
		formatTime(close.EndedAt),
		close.DurationSeconds,
		close.MusicPlayed,
		close.TimerUsed,
		formatTime(time.Now()),
		close.SessionID,
	)
	if err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("close session rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SessionRepository) GetSession(ctx context.Context, sessionID string) (*model.UserSession, error) {
	row := r.db.QueryRowxContext(
		ctx,
		r.db.Rebind(`SELECT `+sessionColumns+` FROM user_sessions WHERE id = ?`),
		sessionID,
	)
	return scanUserSession(row)
}

func (r *SessionRepository) ListSessions(ctx context.Context, userID string, limit int) ([]model.UserSession, error) {
	rows, err := r.db.QueryxContext(
		ctx,
		r.db.Rebind(`SELECT `+sessionColumns+`
		 FROM user_sessions
		 WHERE user_id = ?
		 ORDER BY started_at DESC
		 LIMIT ?`),
		userID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]model.UserSession, 0, limit)
	for rows.Next() {
		session, scanErr := scanUserSession(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		sessions = append(sessions, *session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

func scanUserSession(s scanner) (*model.UserSession, error) {
	session := model.UserSession{}
	var moodType string
	var startedAt string
	var endedAt sql.NullString
	var createdAt string
	var updatedAt string
	err := s.Scan(
		&session.ID,
		&session.UserID,
		&moodType,
		&startedAt,
		&endedAt,
		&session.DurationSeconds,
		&session.MusicPlayed,
		&session.TimerUsed,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}
	session.MoodType = model.MoodType(moodType)

	if session.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, fmt.Errorf("parse session started_at: %w", err)
	}
	if endedAt.Valid {
		parsedEndedAt, parseErr := parseTime(endedAt.String)
		if parseErr != nil {
			return nil, fmt.Errorf("parse session ended_at: %w", parseErr)
		}
		session.EndedAt = &parsedEndedAt
	}
	if session.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse session created_at: %w", err)
	}
	if session.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse session updated_at: %w", err)
	}
	return &session, nil
}

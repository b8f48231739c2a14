package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Session binds a cookie value to a user.
type Session struct {
	ID        string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

// InsertSession stores a new session.
func InsertSession(ctx context.Context, db *sql.DB, s Session) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, created_at, expires_at)
		VALUES (?, ?, ?, ?)
	`, s.ID, s.UserID, formatTime(s.CreatedAt), formatTime(s.ExpiresAt))
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// GetSession returns the session with the given id if it has not expired by now.
func GetSession(ctx context.Context, db *sql.DB, id string, now time.Time) (Session, error) {
	var s Session
	var createdAt, expiresAt string
	err := db.QueryRowContext(ctx, `
		SELECT id, user_id, created_at, expires_at
		FROM sessions
		WHERE id = ? AND expires_at > ?
	`, id, formatTime(now)).Scan(&s.ID, &s.UserID, &createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to get session: %w", err)
	}
	s.CreatedAt = parseTime(createdAt)
	s.ExpiresAt = parseTime(expiresAt)
	return s, nil
}

// DeleteSession removes a session. Deleting a missing session is not an error.
func DeleteSession(ctx context.Context, db *sql.DB, id string) error {
	if _, err := db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes every session that expired before now and
// returns how many were removed.
func DeleteExpiredSessions(ctx context.Context, db *sql.DB, now time.Time) (int64, error) {
	result, err := db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= ?", formatTime(now))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}

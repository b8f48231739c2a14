package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tastebook/internal/model"
)

// ErrUsernameTaken is returned by InsertUser for a duplicate username.
var ErrUsernameTaken = errors.New("username already exists")

// UserRecord is a user row including the password hash, which never leaves
// the backend.
type UserRecord struct {
	model.User
	PasswordHash string
}

const userColumns = `id, username, email, password_hash, is_active, failed_login_attempts,
	last_login, account_locked_until, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (UserRecord, error) {
	var u UserRecord
	var isActive int
	var lastLogin, lockedUntil sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &isActive, &u.FailedLoginAttempts,
		&lastLogin, &lockedUntil, &createdAt, &updatedAt)
	if err != nil {
		return UserRecord{}, err
	}
	u.IsActive = isActive == 1
	u.LastLogin = parseNullTime(lastLogin)
	u.AccountLockedUntil = parseNullTime(lockedUntil)
	u.CreatedAt = parseTime(createdAt)
	u.UpdatedAt = parseTime(updatedAt)
	return u, nil
}

// InsertUser creates a user and returns it.
func InsertUser(ctx context.Context, db *sql.DB, username, email, passwordHash string) (model.User, error) {
	result, err := db.ExecContext(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES (?, ?, ?)
	`, username, email, passwordHash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return model.User{}, ErrUsernameTaken
		}
		return model.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get last insert id: %w", err)
	}

	u, err := GetUser(ctx, db, id)
	if err != nil {
		return model.User{}, err
	}
	return u.User, nil
}

// GetUser retrieves a user by ID.
func GetUser(ctx context.Context, db *sql.DB, id int64) (UserRecord, error) {
	row := db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return UserRecord{}, ErrNotFound
	}
	if err != nil {
		return UserRecord{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetUserByUsername retrieves a user by username.
func GetUserByUsername(ctx context.Context, db *sql.DB, username string) (UserRecord, error) {
	row := db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return UserRecord{}, ErrNotFound
	}
	if err != nil {
		return UserRecord{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// RecordFailedLogin increments the failed attempt counter and, once it reaches
// maxAttempts, locks the account until lockUntil.
func RecordFailedLogin(ctx context.Context, db *sql.DB, id int64, maxAttempts int, lockUntil time.Time) error {
	_, err := db.ExecContext(ctx, `
		UPDATE users
		SET failed_login_attempts = failed_login_attempts + 1,
		    account_locked_until = CASE
		        WHEN failed_login_attempts + 1 >= ? THEN ?
		        ELSE account_locked_until
		    END,
		    updated_at = strftime('%Y-%m-%dT%H:%M:%fZ','now')
		WHERE id = ?
	`, maxAttempts, formatTime(lockUntil), id)
	if err != nil {
		return fmt.Errorf("failed to record failed login: %w", err)
	}
	return nil
}

// RecordSuccessfulLogin clears the lockout state and stamps last_login.
func RecordSuccessfulLogin(ctx context.Context, db *sql.DB, id int64, at time.Time) error {
	_, err := db.ExecContext(ctx, `
		UPDATE users
		SET failed_login_attempts = 0,
		    account_locked_until = NULL,
		    last_login = ?,
		    updated_at = strftime('%Y-%m-%dT%H:%M:%fZ','now')
		WHERE id = ?
	`, formatTime(at), id)
	if err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	return nil
}

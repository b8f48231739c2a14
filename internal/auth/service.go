// Package auth registers users, checks passwords and manages cookie sessions.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tastebook/internal/db"
	"tastebook/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountLocked      = errors.New("account is temporarily locked due to too many failed login attempts")
	ErrAccountInactive    = errors.New("account is deactivated")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrUnauthenticated    = errors.New("authentication required")
)

// Config holds the tunables of the service.
type Config struct {
	BcryptCost       int
	MaxLoginAttempts int
	LockDuration     time.Duration
	SessionMaxAge    time.Duration
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		BcryptCost:       bcrypt.DefaultCost,
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
		SessionMaxAge:    24 * time.Hour,
	}
}

// Service is safe for concurrent use.
type Service struct {
	db     *sql.DB
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates an auth service backed by database.
func NewService(database *sql.DB, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{db: database, cfg: cfg, logger: logger, now: time.Now}
}

// SessionMaxAge is the lifetime of sessions created by Login.
func (s *Service) SessionMaxAge() time.Duration {
	return s.cfg.SessionMaxAge
}

// Register creates an account. It does not create a session.
func (s *Service) Register(ctx context.Context, creds model.Credentials) (model.User, error) {
	if err := creds.Validate(); err != nil {
		return model.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), s.cfg.BcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := db.InsertUser(ctx, s.db, creds.Username, "", string(hash))
	if errors.Is(err, db.ErrUsernameTaken) {
		return model.User{}, ErrUsernameTaken
	}
	if err != nil {
		return model.User{}, err
	}

	s.logger.Info("user registered", slog.Int64("user_id", user.ID))
	return user, nil
}

// Login verifies credentials and opens a session. Repeated failures lock the
// account for the configured duration.
func (s *Service) Login(ctx context.Context, creds model.Credentials) (model.User, db.Session, error) {
	if creds.Username == "" || creds.Password == "" {
		return model.User{}, db.Session{}, model.ValidationErrors{"credentials": "username and password are required"}
	}

	rec, err := db.GetUserByUsername(ctx, s.db, creds.Username)
	if errors.Is(err, db.ErrNotFound) {
		return model.User{}, db.Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, db.Session{}, err
	}

	now := s.now()
	if !rec.IsActive {
		return model.User{}, db.Session{}, ErrAccountInactive
	}
	if rec.AccountLockedUntil != nil && rec.AccountLockedUntil.After(now) {
		return model.User{}, db.Session{}, ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(creds.Password)); err != nil {
		if err := db.RecordFailedLogin(ctx, s.db, rec.ID, s.cfg.MaxLoginAttempts, now.Add(s.cfg.LockDuration)); err != nil {
			return model.User{}, db.Session{}, err
		}
		s.logger.Warn("failed login attempt",
			slog.Int64("user_id", rec.ID),
			slog.Int("attempts", rec.FailedLoginAttempts+1),
		)
		return model.User{}, db.Session{}, ErrInvalidCredentials
	}

	if err := db.RecordSuccessfulLogin(ctx, s.db, rec.ID, now); err != nil {
		return model.User{}, db.Session{}, err
	}

	session := db.Session{
		ID:        uuid.NewString(),
		UserID:    rec.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SessionMaxAge),
	}
	if err := db.InsertSession(ctx, s.db, session); err != nil {
		return model.User{}, db.Session{}, err
	}

	fresh, err := db.GetUser(ctx, s.db, rec.ID)
	if err != nil {
		return model.User{}, db.Session{}, err
	}
	return fresh.User, session, nil
}

// Logout deletes the session. Unknown ids are ignored.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return db.DeleteSession(ctx, s.db, sessionID)
}

// Authenticate resolves a session id to its active user.
func (s *Service) Authenticate(ctx context.Context, sessionID string) (model.User, error) {
	if sessionID == "" {
		return model.User{}, ErrUnauthenticated
	}
	session, err := db.GetSession(ctx, s.db, sessionID, s.now())
	if errors.Is(err, db.ErrNotFound) {
		return model.User{}, ErrUnauthenticated
	}
	if err != nil {
		return model.User{}, err
	}

	rec, err := db.GetUser(ctx, s.db, session.UserID)
	if errors.Is(err, db.ErrNotFound) {
		return model.User{}, ErrUnauthenticated
	}
	if err != nil {
		return model.User{}, err
	}
	if !rec.IsActive {
		return model.User{}, ErrUnauthenticated
	}
	return rec.User, nil
}

// CleanupExpiredSessions removes sessions past their expiry.
func (s *Service) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	return db.DeleteExpiredSessions(ctx, s.db, s.now())
}

// RunCleanup removes expired sessions every interval until ctx is done.
func (s *Service) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.CleanupExpiredSessions(ctx)
			if err != nil {
				s.logger.Error("session cleanup failed", slog.String("error", err.Error()))
				continue
			}
			if n > 0 {
				s.logger.Info("expired sessions removed", slog.Int64("count", n))
			}
		}
	}
}

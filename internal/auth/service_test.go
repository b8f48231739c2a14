package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"tastebook/internal/db"
	"tastebook/internal/model"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("db.Open: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	cfg := DefaultConfig()
	cfg.BcryptCost = bcrypt.MinCost
	return NewService(database, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

var alice = model.Credentials{Username: "alice", Password: "pw1"}

func TestRegister(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	u, err := s.Register(ctx, alice)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Username != "alice" || u.ID == 0 {
		t.Errorf("user = %+v", u)
	}

	if _, err := s.Register(ctx, alice); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("duplicate err = %v", err)
	}

	var verrs model.ValidationErrors
	if _, err := s.Register(ctx, model.Credentials{Username: "a b", Password: "pw1"}); !errors.As(err, &verrs) {
		t.Errorf("invalid username err = %v", err)
	}
}

func TestLoginAndAuthenticate(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	if _, err := s.Register(ctx, alice); err != nil {
		t.Fatal(err)
	}

	u, sess, err := s.Login(ctx, alice)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if u.LastLogin == nil {
		t.Error("last_login should be set")
	}
	if sess.ID == "" || !sess.ExpiresAt.After(time.Now()) {
		t.Errorf("session = %+v", sess)
	}

	got, err := s.Authenticate(ctx, sess.ID)
	if err != nil || got.ID != u.ID {
		t.Fatalf("Authenticate = %+v, %v", got, err)
	}

	if err := s.Logout(ctx, sess.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Authenticate(ctx, sess.ID); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("after logout err = %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	s.Register(ctx, alice)

	tests := []model.Credentials{
		{Username: "alice", Password: "nope"},
		{Username: "nobody", Password: "pw1"},
	}
	for _, creds := range tests {
		if _, _, err := s.Login(ctx, creds); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login(%s) err = %v, want ErrInvalidCredentials", creds.Username, err)
		}
	}
}

func TestLogin_LocksAfterRepeatedFailures(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	s.Register(ctx, alice)

	now := time.Now()
	s.now = func() time.Time { return now }

	wrong := model.Credentials{Username: "alice", Password: "wrong"}
	for i := 0; i < 5; i++ {
		if _, _, err := s.Login(ctx, wrong); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d err = %v", i+1, err)
		}
	}

	if _, _, err := s.Login(ctx, alice); !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("correct password while locked err = %v, want ErrAccountLocked", err)
	}

	s.now = func() time.Time { return now.Add(16 * time.Minute) }
	u, _, err := s.Login(ctx, alice)
	if err != nil {
		t.Fatalf("login after lock expiry: %v", err)
	}
	if u.FailedLoginAttempts != 0 || u.AccountLockedUntil != nil {
		t.Errorf("lockout not reset: %+v", u)
	}
}

func TestAuthenticate_ExpiredSession(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	s.Register(ctx, alice)

	_, sess, err := s.Login(ctx, alice)
	if err != nil {
		t.Fatal(err)
	}

	s.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	if _, err := s.Authenticate(ctx, sess.ID); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("err = %v, want ErrUnauthenticated", err)
	}

	n, err := s.CleanupExpiredSessions(ctx)
	if err != nil || n != 1 {
		t.Errorf("cleanup = %d, %v", n, err)
	}
}

// Package session tracks who is logged in and reacts to expired sessions.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"tastebook/internal/model"
)

// State is the authentication state of the client.
type State int

const (
	StateUnknown State = iota
	StateChecking
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	}
	return "unknown"
}

// ErrNoSession is returned by Login when the backend accepted the credentials
// but the follow-up session check did not see a session.
var ErrNoSession = errors.New("login succeeded but no session was established")

// Authenticator is the part of the API client the store needs.
type Authenticator interface {
	Check(ctx context.Context) (bool, error)
	Me(ctx context.Context) (model.User, error)
	Login(ctx context.Context, creds model.Credentials) (model.User, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, creds model.Credentials) (model.User, error)
}

// Snapshot is an immutable view of the store.
type Snapshot struct {
	State   State
	User    *model.User
	Loading bool
}

// Authenticated reports whether a user is logged in.
func (s Snapshot) Authenticated() bool {
	return s.State == StateAuthenticated && s.User != nil
}

// Store is the single source of truth for the current user. It is safe for
// concurrent use.
type Store struct {
	auth   Authenticator
	logger *slog.Logger
	checks singleflight.Group

	mu          sync.Mutex
	snap        Snapshot
	subs        map[int]func(Snapshot)
	nextSub     int
	logoutHooks []func()
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for session events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates a store in StateUnknown.
func New(auth Authenticator, opts ...Option) *Store {
	s := &Store{
		auth:   auth,
		logger: slog.Default(),
		subs:   make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Authenticated reports whether a user is logged in.
func (s *Store) Authenticated() bool {
	return s.Snapshot().Authenticated()
}

// Subscribe registers fn to be called after every state change. fn runs on
// the goroutine that caused the change and must not block.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// OnLogout registers fn to run after every logout, successful or not.
func (s *Store) OnLogout(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logoutHooks = append(s.logoutHooks, fn)
}

// CheckSession asks the backend whether the session cookie is valid and, if
// so, who it belongs to. Any failure leaves the store anonymous. Concurrent
// calls share one check.
func (s *Store) CheckSession(ctx context.Context) Snapshot {
	v, _, _ := s.checks.Do("check", func() (any, error) {
		return s.check(ctx), nil
	})
	return v.(Snapshot)
}

func (s *Store) check(ctx context.Context) Snapshot {
	s.update(func(snap *Snapshot) {
		snap.State = StateChecking
		snap.Loading = true
	})

	ok, err := s.auth.Check(ctx)
	if err != nil {
		s.logger.Debug("session check failed", slog.String("error", err.Error()))
		return s.clear()
	}
	if !ok {
		return s.clear()
	}

	user, err := s.auth.Me(ctx)
	if err != nil {
		s.logger.Debug("fetching current user failed", slog.String("error", err.Error()))
		return s.clear()
	}

	return s.update(func(snap *Snapshot) {
		snap.State = StateAuthenticated
		snap.User = &user
		snap.Loading = false
	})
}

// Login authenticates and then re-checks the session. On failure the store is
// anonymous and the error is returned as is: model.ValidationErrors for bad
// input, *api.Error carrying the backend's message otherwise.
func (s *Store) Login(ctx context.Context, creds model.Credentials) error {
	if err := creds.Validate(); err != nil {
		s.clear()
		return err
	}

	s.update(func(snap *Snapshot) { snap.Loading = true })
	if _, err := s.auth.Login(ctx, creds); err != nil {
		s.clear()
		return err
	}

	snap := s.CheckSession(ctx)
	if !snap.Authenticated() {
		return ErrNoSession
	}
	s.logger.Info("logged in", slog.String("username", snap.User.Username))
	return nil
}

// Logout ends the session. Local state is cleared and logout hooks run even
// when the backend call fails; the backend error is returned for logging.
func (s *Store) Logout(ctx context.Context) error {
	err := s.auth.Logout(ctx)
	if err != nil {
		s.logger.Warn("backend logout failed", slog.String("error", err.Error()))
		err = fmt.Errorf("logout: %w", err)
	}

	s.clear()

	s.mu.Lock()
	hooks := append([]func(){}, s.logoutHooks...)
	s.mu.Unlock()
	for _, fn := range hooks {
		fn()
	}
	return err
}

// Register creates an account without logging in.
func (s *Store) Register(ctx context.Context, creds model.Credentials) (model.User, error) {
	if err := creds.Validate(); err != nil {
		return model.User{}, err
	}
	user, err := s.auth.Register(ctx, creds)
	if err != nil {
		return model.User{}, err
	}
	s.logger.Info("registered account", slog.String("username", user.Username))
	return user, nil
}

func (s *Store) clear() Snapshot {
	return s.update(func(snap *Snapshot) {
		snap.State = StateAnonymous
		snap.User = nil
		snap.Loading = false
	})
}

func (s *Store) update(fn func(*Snapshot)) Snapshot {
	s.mu.Lock()
	fn(&s.snap)
	snap := s.snap
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(snap)
	}
	return snap
}

// Package autocomplete drives debounced suggestion lookups for a single input
// box. Every keystroke bumps a generation; only the newest generation may
// publish results, so slow responses for older terms are dropped.
package autocomplete

import (
	"context"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"tastebook/internal/model"
)

const (
	DefaultDelay     = 300 * time.Millisecond
	DefaultMinLength = 2
)

// Fetcher looks up suggestions for term. It should honor ctx cancellation.
type Fetcher func(ctx context.Context, term string) ([]model.Suggestion, error)

// State is a snapshot of a box.
type State struct {
	Term        string
	Suggestions []model.Suggestion
	Loading     bool
	Generation  uint64
}

// Box owns the suggestion state of one input. It is safe for concurrent use.
type Box struct {
	fetch  Fetcher
	delay  time.Duration
	minLen int
	logger *slog.Logger

	mu      sync.Mutex
	state   State
	timer   *time.Timer
	cancel  context.CancelFunc
	closed  bool
	updates chan State
}

// Option configures a Box.
type Option func(*Box)

// WithDelay sets the quiet period before a lookup is issued.
func WithDelay(d time.Duration) Option {
	return func(b *Box) { b.delay = d }
}

// WithMinLength sets the minimum term length, in runes, that triggers a lookup.
func WithMinLength(n int) Option {
	return func(b *Box) { b.minLen = n }
}

// WithLogger sets the logger used for failed lookups.
func WithLogger(l *slog.Logger) Option {
	return func(b *Box) { b.logger = l }
}

// New creates a box that looks suggestions up with fetch.
func New(fetch Fetcher, opts ...Option) *Box {
	b := &Box{
		fetch:   fetch,
		delay:   DefaultDelay,
		minLen:  DefaultMinLength,
		logger:  slog.Default(),
		state:   State{Suggestions: []model.Suggestion{}},
		updates: make(chan State, 1),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Input records the current text of the box. Short terms clear the list
// immediately; longer ones start a new debounce period and supersede any
// pending or in-flight lookup.
func (b *Box) Input(term string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	b.stopLocked()
	b.state.Generation++
	b.state.Term = term

	if utf8.RuneCountInString(term) < b.minLen {
		b.state.Suggestions = []model.Suggestion{}
		b.state.Loading = false
		b.publishLocked()
		return
	}

	b.state.Loading = true
	b.publishLocked()

	gen := b.state.Generation
	b.timer = time.AfterFunc(b.delay, func() { b.run(gen, term) })
}

func (b *Box) run(gen uint64, term string) {
	b.mu.Lock()
	if b.closed || gen != b.state.Generation {
		b.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	b.timer = nil
	b.cancel = cancel
	b.mu.Unlock()

	suggestions, err := b.fetch(ctx, term)

	b.mu.Lock()
	defer b.mu.Unlock()
	cancel()
	if b.closed || gen != b.state.Generation {
		return
	}
	b.cancel = nil

	if err != nil {
		b.logger.Warn("autocomplete lookup failed",
			slog.String("term", term),
			slog.String("error", err.Error()),
		)
		suggestions = nil
	}
	if suggestions == nil {
		suggestions = []model.Suggestion{}
	}
	b.state.Suggestions = suggestions
	b.state.Loading = false
	b.publishLocked()
}

// Commit is called when the user picks s. The list is cleared and any pending
// lookup is abandoned.
func (b *Box) Commit(s model.Suggestion) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	b.stopLocked()
	b.state.Generation++
	b.state.Term = s.Name
	b.state.Suggestions = []model.Suggestion{}
	b.state.Loading = false
	b.publishLocked()
}

// State returns the current snapshot.
func (b *Box) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Updates delivers state changes. Only the latest undelivered state is kept.
// The channel is closed by Close.
func (b *Box) Updates() <-chan State {
	return b.updates
}

// Close stops the pending timer and cancels the in-flight lookup. Completions
// arriving afterwards are ignored.
func (b *Box) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.stopLocked()
	b.closed = true
	b.state.Generation++
	b.state.Loading = false
	close(b.updates)
}

func (b *Box) stopLocked() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
}

func (b *Box) publishLocked() {
	select {
	case <-b.updates:
	default:
	}
	b.updates <- b.state
}

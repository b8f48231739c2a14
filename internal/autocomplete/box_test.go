package autocomplete

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"tastebook/internal/model"
)

const testDelay = 20 * time.Millisecond

type recorder struct {
	mu    sync.Mutex
	terms []string
	ctxs  []context.Context
	fn    func(ctx context.Context, term string) ([]model.Suggestion, error)
}

func (r *recorder) fetch(ctx context.Context, term string) ([]model.Suggestion, error) {
	r.mu.Lock()
	r.terms = append(r.terms, term)
	r.ctxs = append(r.ctxs, ctx)
	fn := r.fn
	r.mu.Unlock()
	if fn != nil {
		return fn(ctx, term)
	}
	return []model.Suggestion{{Name: term + " Bistro", City: "Paris"}}, nil
}

func (r *recorder) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.terms...)
}

func newBox(r *recorder) *Box {
	return New(r.fetch,
		WithDelay(testDelay),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func waitState(t *testing.T, b *Box, cond func(State) bool) State {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		s := b.State()
		if cond(s) {
			return s
		}
		if time.Now().After(deadline) {
			t.Fatalf("state never matched; last = %+v", s)
		}
		time.Sleep(time.Millisecond)
	}
}

func settled(s State) bool { return !s.Loading }

func TestBox_DebouncesToLastTerm(t *testing.T) {
	r := &recorder{}
	b := newBox(r)
	defer b.Close()

	b.Input("a")
	b.Input("ab")
	b.Input("abc")

	if !b.State().Loading {
		t.Error("expected loading while debouncing")
	}
	s := waitState(t, b, settled)

	calls := r.calls()
	if len(calls) != 1 || calls[0] != "abc" {
		t.Fatalf("calls = %v, want [abc]", calls)
	}
	if len(s.Suggestions) != 1 || s.Suggestions[0].Name != "abc Bistro" {
		t.Errorf("suggestions = %+v", s.Suggestions)
	}
}

func TestBox_ShortTermNeverFetches(t *testing.T) {
	tests := []string{"", "a", "é"}
	for _, term := range tests {
		t.Run(term, func(t *testing.T) {
			r := &recorder{}
			b := newBox(r)
			defer b.Close()

			b.Input(term)
			s := b.State()
			if s.Loading || len(s.Suggestions) != 0 {
				t.Errorf("state = %+v, want empty and not loading", s)
			}
			time.Sleep(3 * testDelay)
			if calls := r.calls(); len(calls) != 0 {
				t.Errorf("calls = %v, want none", calls)
			}
		})
	}
}

func TestBox_ShortTermClearsPreviousResults(t *testing.T) {
	r := &recorder{}
	b := newBox(r)
	defer b.Close()

	b.Input("pizza")
	waitState(t, b, func(s State) bool { return !s.Loading && len(s.Suggestions) == 1 })

	b.Input("p")
	if s := b.State(); len(s.Suggestions) != 0 || s.Loading {
		t.Errorf("state = %+v, want cleared", s)
	}
}

func TestBox_DiscardsOutOfOrderResponse(t *testing.T) {
	release := make(chan struct{})
	r := &recorder{}
	r.fn = func(ctx context.Context, term string) ([]model.Suggestion, error) {
		if term == "ab" {
			// Ignores cancellation to simulate a late response.
			<-release
			return []model.Suggestion{{Name: "stale"}}, nil
		}
		return []model.Suggestion{{Name: "fresh"}}, nil
	}
	b := newBox(r)
	defer b.Close()

	b.Input("ab")
	deadline := time.Now().Add(2 * time.Second)
	for len(r.calls()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("first lookup never started")
		}
		time.Sleep(time.Millisecond)
	}

	b.Input("abc")
	r.mu.Lock()
	firstCtx := r.ctxs[0]
	r.mu.Unlock()
	if firstCtx.Err() == nil {
		t.Error("superseded lookup should be cancelled")
	}

	waitState(t, b, func(s State) bool { return !s.Loading && len(s.Suggestions) == 1 })
	close(release)
	time.Sleep(3 * testDelay)

	s := b.State()
	if len(s.Suggestions) != 1 || s.Suggestions[0].Name != "fresh" {
		t.Errorf("suggestions = %+v, want fresh", s.Suggestions)
	}
}

func TestBox_FailureEmptiesList(t *testing.T) {
	r := &recorder{}
	b := newBox(r)
	defer b.Close()

	b.Input("sushi")
	waitState(t, b, func(s State) bool { return !s.Loading && len(s.Suggestions) == 1 })

	r.mu.Lock()
	r.fn = func(context.Context, string) ([]model.Suggestion, error) {
		return nil, errors.New("upstream down")
	}
	r.mu.Unlock()

	b.Input("sushis")
	s := waitState(t, b, settled)
	if len(s.Suggestions) != 0 {
		t.Errorf("suggestions = %+v, want empty", s.Suggestions)
	}
	if s.Suggestions == nil {
		t.Error("suggestions should be an empty slice, not nil")
	}
}

func TestBox_CommitClearsAndCancels(t *testing.T) {
	r := &recorder{}
	b := newBox(r)
	defer b.Close()

	b.Input("tacos")
	b.Commit(model.Suggestion{Name: "Tacos Al Pastor", City: "Austin"})

	s := b.State()
	if s.Term != "Tacos Al Pastor" || s.Loading || len(s.Suggestions) != 0 {
		t.Errorf("state = %+v", s)
	}
	time.Sleep(3 * testDelay)
	if calls := r.calls(); len(calls) != 0 {
		t.Errorf("calls = %v, want pending lookup abandoned", calls)
	}
}

func TestBox_CloseIgnoresLaterCompletions(t *testing.T) {
	release := make(chan struct{})
	r := &recorder{}
	r.fn = func(context.Context, string) ([]model.Suggestion, error) {
		<-release
		return []model.Suggestion{{Name: "late"}}, nil
	}
	b := newBox(r)

	b.Input("ramen")
	deadline := time.Now().Add(2 * time.Second)
	for len(r.calls()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("lookup never started")
		}
		time.Sleep(time.Millisecond)
	}

	b.Close()
	close(release)
	time.Sleep(3 * testDelay)

	if s := b.State(); len(s.Suggestions) != 0 || s.Loading {
		t.Errorf("state = %+v after Close", s)
	}

	b.Input("ramen bar")
	if len(r.calls()) != 1 {
		t.Error("Input after Close must not schedule lookups")
	}

	// Drain the last buffered state; the channel must then be closed.
	for range b.Updates() {
	}
}

func TestBox_UpdatesKeepsLatestState(t *testing.T) {
	r := &recorder{}
	b := newBox(r)
	defer b.Close()

	b.Input("x")
	b.Input("y")
	b.Input("z")

	select {
	case s := <-b.Updates():
		if s.Term != "z" {
			t.Errorf("term = %q, want latest z", s.Term)
		}
	default:
		t.Fatal("expected a buffered update")
	}
	select {
	case s := <-b.Updates():
		t.Errorf("unexpected extra update %+v", s)
	default:
	}
}

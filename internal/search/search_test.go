package search

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"tastebook/internal/db"
	"tastebook/internal/model"
)

func TestYelpClient_Autocomplete(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/businesses/search" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header = %q", got)
		}
		if got := r.URL.Query().Get("term"); got != "Pizza" {
			t.Errorf("term = %q", got)
		}
		w.Write([]byte(`{"businesses":[{"id":"x","name":"Joe's Pizza","location":{"city":"New York"}}],"total":1}`))
	}))
	defer srv.Close()

	c := NewYelpClient("test-key", WithBaseURL(srv.URL))
	for i := 0; i < 2; i++ {
		got, err := c.Autocomplete(context.Background(), "Pizza")
		if err != nil {
			t.Fatalf("Autocomplete: %v", err)
		}
		if len(got) != 1 || got[0].Name != "Joe's Pizza" || got[0].City != "New York" {
			t.Errorf("got %+v", got)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("upstream calls = %d, want 1 (second served from cache)", calls.Load())
	}
}

func TestYelpClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewYelpClient("bad", WithBaseURL(srv.URL))
	got, err := c.Autocomplete(context.Background(), "sushi")
	if err == nil {
		t.Fatal("expected error")
	}
	if got == nil {
		t.Error("expected empty slice on error")
	}
}

type stubUpstream struct {
	results []model.Suggestion
	err     error
	calls   int
}

func (s *stubUpstream) Autocomplete(ctx context.Context, query string) ([]model.Suggestion, error) {
	s.calls++
	return s.results, s.err
}

func newSuggesterDB(t *testing.T) (model.User, func(up Upstream) *Suggester) {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "search.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close() })

	ctx := context.Background()
	u, err := db.InsertUser(ctx, database, "alice", "", "hash")
	if err != nil {
		t.Fatal(err)
	}
	db.InsertRestaurant(ctx, database, u.ID, model.RestaurantInput{Name: "Bistrot Paul", City: "Paris", Rating: 4})
	db.InsertWishlistItem(ctx, database, u.ID, model.WishlistInput{Name: "Bistro Volnay", City: "Paris", Priority: model.PriorityLow})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return u, func(up Upstream) *Suggester { return NewSuggester(database, up, logger) }
}

func TestSuggester_ShortTerm(t *testing.T) {
	u, build := newSuggesterDB(t)
	up := &stubUpstream{}
	s := build(up)

	got, err := s.Suggest(context.Background(), u.ID, PoolRestaurants, " b ")
	if err != nil || len(got) != 0 {
		t.Errorf("got %v, %v", got, err)
	}
	if up.calls != 0 {
		t.Error("short term must not reach upstream")
	}
}

func TestSuggester_Pools(t *testing.T) {
	u, build := newSuggesterDB(t)
	s := build(nil)
	ctx := context.Background()

	got, _ := s.Suggest(ctx, u.ID, PoolRestaurants, "bis")
	if len(got) != 1 || got[0].Name != "Bistrot Paul" {
		t.Errorf("restaurants pool = %v", got)
	}
	got, _ = s.Suggest(ctx, u.ID, PoolWishlist, "bis")
	if len(got) != 1 || got[0].Name != "Bistro Volnay" {
		t.Errorf("wishlist pool = %v", got)
	}
}

func TestSuggester_MergesUpstream(t *testing.T) {
	u, build := newSuggesterDB(t)
	up := &stubUpstream{results: []model.Suggestion{
		{Name: "bistrot paul", City: "paris"},
		{Name: "Bistrot Victor", City: "Paris"},
	}}
	s := build(up)

	got, err := s.Suggest(context.Background(), u.ID, PoolRestaurants, "bistrot")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Name != "Bistrot Paul" || got[1].Name != "Bistrot Victor" {
		t.Errorf("got %v, want local first and duplicates removed", got)
	}
}

func TestSuggester_UpstreamFailureFallsBack(t *testing.T) {
	u, build := newSuggesterDB(t)
	s := build(&stubUpstream{err: errors.New("timeout")})

	got, err := s.Suggest(context.Background(), u.ID, PoolRestaurants, "bistrot")
	if err != nil {
		t.Fatalf("err = %v, want local results", err)
	}
	if len(got) != 1 {
		t.Errorf("got %v", got)
	}
}

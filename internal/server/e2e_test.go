package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"tastebook/internal/api"
	"tastebook/internal/autocomplete"
	"tastebook/internal/cache"
	"tastebook/internal/data"
	"tastebook/internal/model"
	"tastebook/internal/session"
)

type recordingNav struct {
	mu      sync.Mutex
	current string
	visited []string
}

func (n *recordingNav) CurrentPath() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *recordingNav) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = path
	n.visited = append(n.visited, path)
}

// TestClientAgainstBackend drives the client data layer through a full
// session against the real router.
func TestClientAgainstBackend(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	client, err := api.New(env.srv.URL, api.WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}
	nav := &recordingNav{current: session.RootPath}
	client.SetUnauthorizedHandler(session.NewRedirector(nav).HandleUnauthorized)

	sess := session.New(client, session.WithLogger(logger))
	store := data.NewStore(client, cache.New(cache.DefaultSize), logger)
	sess.OnLogout(store.Clear)

	if snap := sess.CheckSession(ctx); snap.State != session.StateAnonymous {
		t.Fatalf("initial check = %v", snap.State)
	}

	alice := model.Credentials{Username: "alice", Password: "pw1"}
	if _, err := sess.Register(ctx, alice); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if sess.Authenticated() {
		t.Fatal("register must not authenticate")
	}

	err = sess.Login(ctx, model.Credentials{Username: "alice", Password: "wrong"})
	if !errors.Is(err, api.ErrUnauthorized) || api.Message(err) != auth401Message {
		t.Errorf("bad login err = %v", err)
	}

	if err := sess.Login(ctx, alice); err != nil {
		t.Fatalf("Login: %v", err)
	}
	snap := sess.Snapshot()
	if !snap.Authenticated() || snap.User.Username != "alice" {
		t.Fatalf("snapshot = %+v", snap)
	}

	// Mutations invalidate cached reads.
	before, err := store.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.CreateRestaurant(ctx, model.RestaurantInput{Name: "Le Chat", City: "Paris", Rating: 5, IsFavorite: true}); err != nil {
		t.Fatalf("CreateRestaurant: %v", err)
	}
	after, err := store.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if after.TotalFavorites != before.TotalFavorites+1 || after.AverageRating != "5.0" {
		t.Errorf("stats %+v -> %+v", before, after)
	}

	item, err := store.CreateWishlistItem(ctx, model.WishlistInput{Name: "Septime", City: "Paris"})
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := store.WishlistCount(ctx); n != 1 {
		t.Errorf("wishlist count = %d", n)
	}
	if _, err := store.PromoteWishlistItem(ctx, item.ID, 4); err != nil {
		t.Fatalf("Promote: %v", err)
	}
	if n, _ := store.WishlistCount(ctx); n != 0 {
		t.Errorf("wishlist count after promote = %d", n)
	}
	list, err := store.Restaurants(ctx)
	if err != nil || len(list) != 2 || list[0].Name != "Septime" {
		t.Errorf("restaurants = %+v, %v", list, err)
	}

	box := autocomplete.New(store.RestaurantSuggestions, autocomplete.WithDelay(10*time.Millisecond))
	defer box.Close()
	box.Input("sep")
	if got := waitSuggestions(t, box); len(got) != 1 || got[0].Name != "Septime" {
		t.Errorf("suggestions = %+v", got)
	}

	if err := sess.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if store.Cache().Len() != 0 {
		t.Error("logout should clear the cache")
	}
	if snap := sess.CheckSession(ctx); snap.State != session.StateAnonymous {
		t.Errorf("check after logout = %v", snap.State)
	}

	// An expired session on a protected screen sends the user to /login.
	nav.Navigate("/restaurants")
	if _, err := store.Restaurants(ctx); !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("read after logout err = %v", err)
	}
	if got := nav.CurrentPath(); got != session.LoginPath {
		t.Errorf("path = %q, want %q", got, session.LoginPath)
	}
}

const auth401Message = "invalid username or password"

func waitSuggestions(t *testing.T, box *autocomplete.Box) []model.Suggestion {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case st := <-box.Updates():
			if !st.Loading && len(st.Suggestions) > 0 {
				return st.Suggestions
			}
		case <-timeout:
			t.Fatalf("no suggestions, state = %+v", box.State())
			return nil
		}
	}
}

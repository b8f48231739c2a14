package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"tastebook/internal/model"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createUser(t *testing.T, db *sql.DB, username string) model.User {
	t.Helper()
	u, err := InsertUser(context.Background(), db, username, "", "hash")
	if err != nil {
		t.Fatalf("InsertUser: %v", err)
	}
	return u
}

func TestOpen_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	for i := 0; i < 2; i++ {
		db, err := Open(path)
		if err != nil {
			t.Fatalf("Open #%d: %v", i+1, err)
		}
		db.Close()
	}
}

func TestInsertUser_DuplicateUsername(t *testing.T) {
	db := openTestDB(t)
	u := createUser(t, db, "alice")
	if !u.IsActive || u.FailedLoginAttempts != 0 || u.LastLogin != nil {
		t.Errorf("new user = %+v", u)
	}

	_, err := InsertUser(context.Background(), db, "alice", "", "hash")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("err = %v, want ErrUsernameTaken", err)
	}
}

func TestLoginBookkeeping(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")
	lockUntil := time.Now().Add(15 * time.Minute)

	for i := 0; i < 4; i++ {
		if err := RecordFailedLogin(ctx, db, u.ID, 5, lockUntil); err != nil {
			t.Fatal(err)
		}
	}
	rec, _ := GetUser(ctx, db, u.ID)
	if rec.FailedLoginAttempts != 4 || rec.AccountLockedUntil != nil {
		t.Fatalf("after 4 failures: %+v", rec.User)
	}

	if err := RecordFailedLogin(ctx, db, u.ID, 5, lockUntil); err != nil {
		t.Fatal(err)
	}
	rec, _ = GetUser(ctx, db, u.ID)
	if rec.AccountLockedUntil == nil || !rec.AccountLockedUntil.After(time.Now()) {
		t.Fatalf("account should be locked: %+v", rec.User)
	}

	if err := RecordSuccessfulLogin(ctx, db, u.ID, time.Now()); err != nil {
		t.Fatal(err)
	}
	rec, _ = GetUser(ctx, db, u.ID)
	if rec.FailedLoginAttempts != 0 || rec.AccountLockedUntil != nil || rec.LastLogin == nil {
		t.Errorf("after success: %+v", rec.User)
	}
}

func TestSessions(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")
	now := time.Now()

	live := Session{ID: "live", UserID: u.ID, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	expired := Session{ID: "expired", UserID: u.ID, CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}
	for _, s := range []Session{live, expired} {
		if err := InsertSession(ctx, db, s); err != nil {
			t.Fatal(err)
		}
	}

	got, err := GetSession(ctx, db, "live", now)
	if err != nil || got.UserID != u.ID {
		t.Fatalf("GetSession(live) = %+v, %v", got, err)
	}
	if _, err := GetSession(ctx, db, "expired", now); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired session err = %v, want ErrNotFound", err)
	}

	n, err := DeleteExpiredSessions(ctx, db, now)
	if err != nil || n != 1 {
		t.Errorf("DeleteExpiredSessions = %d, %v", n, err)
	}

	if err := DeleteSession(ctx, db, "live"); err != nil {
		t.Fatal(err)
	}
	if _, err := GetSession(ctx, db, "live", now); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted session err = %v", err)
	}
}

func TestRestaurants_ListFilters(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")

	inputs := []model.RestaurantInput{
		{Name: "First", City: "Paris", Rating: 3},
		{Name: "Second", City: "Lyon", Rating: 4, IsFavorite: true},
		{Name: "Third", City: "Nice", Rating: 5},
	}
	for _, in := range inputs {
		if _, err := InsertRestaurant(ctx, db, u.ID, in); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name   string
		filter RestaurantFilter
		want   []string
	}{
		{"all newest first", RestaurantFilter{}, []string{"Third", "Second", "First"}},
		{"favorites", RestaurantFilter{FavoritesOnly: true}, []string{"Second"}},
		{"limit", RestaurantFilter{Limit: 2}, []string{"Third", "Second"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ListRestaurants(ctx, db, u.ID, tt.filter)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d rows, want %d", len(got), len(tt.want))
			}
			for i, r := range got {
				if r.Name != tt.want[i] {
					t.Errorf("row %d = %q, want %q", i, r.Name, tt.want[i])
				}
			}
		})
	}
}

func TestRestaurants_Ownership(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	r, err := InsertRestaurant(ctx, db, alice.ID, model.RestaurantInput{Name: "Le Chat", City: "Paris", Rating: 4})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := GetRestaurant(ctx, db, bob.ID, r.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get as other user: %v", err)
	}
	if _, err := UpdateRestaurant(ctx, db, bob.ID, r.ID, model.RestaurantInput{Name: "X", City: "Y", Rating: 1}); !errors.Is(err, ErrNotFound) {
		t.Errorf("update as other user: %v", err)
	}
	if err := DeleteRestaurant(ctx, db, bob.ID, r.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete as other user: %v", err)
	}
	if list, _ := ListRestaurants(ctx, db, bob.ID, RestaurantFilter{}); len(list) != 0 {
		t.Errorf("bob sees %d restaurants", len(list))
	}
}

func TestRestaurants_UpdateAndDelete(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")

	r, err := InsertRestaurant(ctx, db, u.ID, model.RestaurantInput{Name: "Le Chat", City: "Paris", Rating: 2})
	if err != nil {
		t.Fatal(err)
	}
	updated, err := UpdateRestaurant(ctx, db, u.ID, r.ID, model.RestaurantInput{Name: "Le Chat Noir", City: "Paris", Rating: 5, IsFavorite: true})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "Le Chat Noir" || updated.Rating != 5 || !updated.IsFavorite {
		t.Errorf("updated = %+v", updated)
	}

	if err := DeleteRestaurant(ctx, db, u.ID, r.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := GetRestaurant(ctx, db, u.ID, r.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete: %v", err)
	}
}

func TestRestaurantStats(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")

	s, err := RestaurantStats(ctx, db, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if s.TotalRestaurants != 0 || s.TotalFavorites != 0 || s.AverageRating != "0.0" {
		t.Errorf("empty stats = %+v", s)
	}

	for _, in := range []model.RestaurantInput{
		{Name: "A1", City: "Paris", Rating: 5, IsFavorite: true},
		{Name: "B1", City: "Paris", Rating: 4},
		{Name: "C1", City: "Paris", Rating: 4},
	} {
		if _, err := InsertRestaurant(ctx, db, u.ID, in); err != nil {
			t.Fatal(err)
		}
	}

	s, err = RestaurantStats(ctx, db, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if s.TotalRestaurants != 3 || s.TotalFavorites != 1 || s.AverageRating != "4.3" {
		t.Errorf("stats = %+v, want 3/1/4.3", s)
	}
}

func TestWishlist_OrderAndPriority(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")

	for _, in := range []model.WishlistInput{
		{Name: "Low", City: "Rome", Priority: model.PriorityLow},
		{Name: "High", City: "Rome", Priority: model.PriorityHigh},
		{Name: "Medium", City: "Rome", Priority: model.PriorityMedium},
		{Name: "High2", City: "Rome", Priority: model.PriorityHigh},
	} {
		if _, err := InsertWishlistItem(ctx, db, u.ID, in); err != nil {
			t.Fatal(err)
		}
	}

	items, err := ListWishlist(ctx, db, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"High2", "High", "Medium", "Low"}
	for i, it := range items {
		if it.Name != want[i] {
			t.Errorf("item %d = %q, want %q", i, it.Name, want[i])
		}
	}

	high, err := ListWishlistByPriority(ctx, db, u.ID, model.PriorityHigh)
	if err != nil || len(high) != 2 {
		t.Errorf("high = %v, %v", high, err)
	}

	n, err := CountWishlist(ctx, db, u.ID)
	if err != nil || n != 4 {
		t.Errorf("count = %d, %v", n, err)
	}
}

func TestPromoteWishlistItem(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")

	it, err := InsertWishlistItem(ctx, db, u.ID, model.WishlistInput{Name: "Noma", City: "Copenhagen", Notes: "tasting menu", Priority: model.PriorityHigh})
	if err != nil {
		t.Fatal(err)
	}

	r, err := PromoteWishlistItem(ctx, db, u.ID, it.ID, 3)
	if err != nil {
		t.Fatal(err)
	}
	if r.Name != "Noma" || r.City != "Copenhagen" || r.Description != "tasting menu" || r.Rating != 3 || r.IsFavorite {
		t.Errorf("restaurant = %+v", r)
	}
	if _, err := GetWishlistItem(ctx, db, u.ID, it.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("wishlist item still present: %v", err)
	}

	if _, err := PromoteWishlistItem(ctx, db, u.ID, it.ID, 3); !errors.Is(err, ErrNotFound) {
		t.Errorf("second promote err = %v, want ErrNotFound", err)
	}
}

func TestPromoteWishlistItem_RollsBackOnFailure(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")

	it, err := InsertWishlistItem(ctx, db, u.ID, model.WishlistInput{Name: "Noma", City: "Copenhagen", Priority: model.PriorityLow})
	if err != nil {
		t.Fatal(err)
	}

	// Rating 9 violates the restaurants CHECK constraint.
	if _, err := PromoteWishlistItem(ctx, db, u.ID, it.ID, 9); err == nil {
		t.Fatal("expected constraint failure")
	}
	if _, err := GetWishlistItem(ctx, db, u.ID, it.ID); err != nil {
		t.Errorf("wishlist item should survive a failed promote: %v", err)
	}
	if list, _ := ListRestaurants(ctx, db, u.ID, RestaurantFilter{}); len(list) != 0 {
		t.Errorf("restaurants = %d, want 0", len(list))
	}
}

func TestSearchNames(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")

	InsertRestaurant(ctx, db, u.ID, model.RestaurantInput{Name: "Bistrot Paul", City: "Paris", Rating: 4})
	InsertRestaurant(ctx, db, u.ID, model.RestaurantInput{Name: "Chez Janou", City: "Paris", Rating: 4})
	InsertWishlistItem(ctx, db, u.ID, model.WishlistInput{Name: "Bistro Volnay", City: "Paris", Priority: model.PriorityLow})

	got, err := SearchRestaurantNames(ctx, db, u.ID, "bistr", 10)
	if err != nil || len(got) != 1 || got[0].Name != "Bistrot Paul" {
		t.Errorf("restaurant search = %v, %v", got, err)
	}
	got, err = SearchWishlistNames(ctx, db, u.ID, "bistr", 10)
	if err != nil || len(got) != 1 || got[0].Name != "Bistro Volnay" {
		t.Errorf("wishlist search = %v, %v", got, err)
	}
}

package model

import "time"

// User represents an account as returned by the backend.
type User struct {
	ID                  int64      `json:"id"`
	Username            string     `json:"username"`
	Email               string     `json:"email"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	IsActive            bool       `json:"is_active"`
	FailedLoginAttempts int        `json:"failed_login_attempts"`
	LastLogin           *time.Time `json:"last_login"`
	AccountLockedUntil  *time.Time `json:"account_locked_until"`
}

// Credentials holds a username/password pair for login and registration.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Restaurant represents a visited restaurant.
type Restaurant struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	City        string    `json:"city"`
	Description string    `json:"description,omitempty"`
	Rating      int       `json:"rating"`
	IsFavorite  bool      `json:"is_favorite"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RestaurantInput represents data for creating or updating a restaurant.
type RestaurantInput struct {
	Name        string `json:"name"`
	City        string `json:"city"`
	Description string `json:"description,omitempty"`
	Rating      int    `json:"rating"`
	IsFavorite  bool   `json:"is_favorite"`
}

// Priority is the urgency of a wishlist entry.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority, lowest first.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank orders priorities for sorting, high first when compared descending.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// WishlistItem represents a place the user wants to try.
type WishlistItem struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	Notes     string    `json:"notes,omitempty"`
	Priority  Priority  `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WishlistInput represents data for creating or updating a wishlist entry.
type WishlistInput struct {
	Name     string   `json:"name"`
	City     string   `json:"city"`
	Notes    string   `json:"notes,omitempty"`
	Priority Priority `json:"priority"`
}

// Stats is the backend-computed aggregate over a user's restaurants.
type Stats struct {
	TotalRestaurants int64  `json:"total_restaurants"`
	TotalFavorites   int64  `json:"total_favorites"`
	AverageRating    string `json:"average_rating"`
}

// Suggestion is a single autocomplete result.
type Suggestion struct {
	Name string `json:"name"`
	City string `json:"city"`
}

// WishlistCount is the payload of the wishlist count endpoint.
type WishlistCount struct {
	Count int64 `json:"count"`
}

// AuthStatus is the payload of the session check endpoint.
type AuthStatus struct {
	Authenticated bool `json:"authenticated"`
}

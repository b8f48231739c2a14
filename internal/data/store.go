// Package data is the client's view of the backend: reads go through the
// resource cache and writes invalidate the groups they affect.
package data

import (
	"context"
	"fmt"
	"log/slog"

	"tastebook/internal/api"
	"tastebook/internal/cache"
	"tastebook/internal/model"
)

// Backend is the part of the API client the store uses.
type Backend interface {
	ListRestaurants(ctx context.Context, q api.RestaurantQuery) ([]model.Restaurant, error)
	GetRestaurant(ctx context.Context, id int64) (model.Restaurant, error)
	CreateRestaurant(ctx context.Context, in model.RestaurantInput) (model.Restaurant, error)
	UpdateRestaurant(ctx context.Context, id int64, in model.RestaurantInput) (model.Restaurant, error)
	DeleteRestaurant(ctx context.Context, id int64) error
	RestaurantStats(ctx context.Context) (model.Stats, error)

	ListWishlist(ctx context.Context) ([]model.WishlistItem, error)
	ListWishlistByPriority(ctx context.Context, p model.Priority) ([]model.WishlistItem, error)
	WishlistCount(ctx context.Context) (int64, error)
	GetWishlistItem(ctx context.Context, id int64) (model.WishlistItem, error)
	CreateWishlistItem(ctx context.Context, in model.WishlistInput) (model.WishlistItem, error)
	UpdateWishlistItem(ctx context.Context, id int64, in model.WishlistInput) (model.WishlistItem, error)
	DeleteWishlistItem(ctx context.Context, id int64) error
	PromoteWishlistItem(ctx context.Context, id int64, req api.PromoteRequest) (model.Restaurant, error)

	Autocomplete(ctx context.Context, pool api.SuggestionPool, term string) ([]model.Suggestion, error)
}

// Store is safe for concurrent use.
type Store struct {
	backend Backend
	cache   *cache.Cache
	logger  *slog.Logger
}

// NewStore creates a store reading through c.
func NewStore(backend Backend, c *cache.Cache, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{backend: backend, cache: c, logger: logger}
}

// Cache exposes the underlying cache for status rendering.
func (s *Store) Cache() *cache.Cache {
	return s.cache
}

// Clear drops every cached read. It is registered as a logout hook.
func (s *Store) Clear() {
	s.cache.Clear()
}

// Keys for each read, for use with Cache().Status.
func RestaurantsKey() cache.Key              { return cache.NewKey(GroupRestaurantList) }
func FavoritesKey() cache.Key                { return cache.NewKey(GroupFavorites) }
func RecentKey(limit int) cache.Key          { return cache.NewKey(GroupRecent, limit) }
func RestaurantKey(id int64) cache.Key       { return cache.NewKey(GroupRestaurantDetail, id) }
func StatsKey() cache.Key                    { return cache.NewKey(GroupStats) }
func WishlistKey() cache.Key                 { return cache.NewKey(GroupWishlistItems) }
func WishlistCountKey() cache.Key            { return cache.NewKey(GroupWishlistCount) }
func WishlistItemKey(id int64) cache.Key     { return cache.NewKey(GroupWishlistDetail, id) }
func PriorityKey(p model.Priority) cache.Key { return cache.NewKey(GroupWishlistPriority, p) }

func (s *Store) Restaurants(ctx context.Context) ([]model.Restaurant, error) {
	return cache.Read(ctx, s.cache, RestaurantsKey(), func(ctx context.Context) ([]model.Restaurant, error) {
		return s.backend.ListRestaurants(ctx, api.RestaurantQuery{})
	})
}

func (s *Store) FavoriteRestaurants(ctx context.Context) ([]model.Restaurant, error) {
	return cache.Read(ctx, s.cache, FavoritesKey(), func(ctx context.Context) ([]model.Restaurant, error) {
		return s.backend.ListRestaurants(ctx, api.RestaurantQuery{FavoritesOnly: true})
	})
}

func (s *Store) RecentRestaurants(ctx context.Context, limit int) ([]model.Restaurant, error) {
	return cache.Read(ctx, s.cache, RecentKey(limit), func(ctx context.Context) ([]model.Restaurant, error) {
		return s.backend.ListRestaurants(ctx, api.RestaurantQuery{Limit: limit})
	})
}

func (s *Store) Restaurant(ctx context.Context, id int64) (model.Restaurant, error) {
	return cache.Read(ctx, s.cache, RestaurantKey(id), func(ctx context.Context) (model.Restaurant, error) {
		return s.backend.GetRestaurant(ctx, id)
	})
}

func (s *Store) Stats(ctx context.Context) (model.Stats, error) {
	return cache.Read(ctx, s.cache, StatsKey(), s.backend.RestaurantStats)
}

func (s *Store) Wishlist(ctx context.Context) ([]model.WishlistItem, error) {
	return cache.Read(ctx, s.cache, WishlistKey(), s.backend.ListWishlist)
}

func (s *Store) WishlistCount(ctx context.Context) (int64, error) {
	return cache.Read(ctx, s.cache, WishlistCountKey(), s.backend.WishlistCount)
}

func (s *Store) WishlistItem(ctx context.Context, id int64) (model.WishlistItem, error) {
	return cache.Read(ctx, s.cache, WishlistItemKey(id), func(ctx context.Context) (model.WishlistItem, error) {
		return s.backend.GetWishlistItem(ctx, id)
	})
}

func (s *Store) WishlistByPriority(ctx context.Context, p model.Priority) ([]model.WishlistItem, error) {
	if !p.Valid() {
		return nil, model.ValidationErrors{"priority": "must be one of low, medium, high"}
	}
	return cache.Read(ctx, s.cache, PriorityKey(p), func(ctx context.Context) ([]model.WishlistItem, error) {
		return s.backend.ListWishlistByPriority(ctx, p)
	})
}

// CreateRestaurant validates in before sending it. On success the restaurant
// reads and stats are invalidated.
func (s *Store) CreateRestaurant(ctx context.Context, in model.RestaurantInput) (model.Restaurant, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return model.Restaurant{}, err
	}
	r, err := s.backend.CreateRestaurant(ctx, in)
	if err != nil {
		return model.Restaurant{}, err
	}
	s.apply(MutCreateRestaurant)
	return r, nil
}

func (s *Store) UpdateRestaurant(ctx context.Context, id int64, in model.RestaurantInput) (model.Restaurant, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return model.Restaurant{}, err
	}
	r, err := s.backend.UpdateRestaurant(ctx, id, in)
	if err != nil {
		return model.Restaurant{}, err
	}
	s.apply(MutUpdateRestaurant)
	return r, nil
}

func (s *Store) DeleteRestaurant(ctx context.Context, id int64) error {
	if err := s.backend.DeleteRestaurant(ctx, id); err != nil {
		return err
	}
	s.apply(MutDeleteRestaurant)
	return nil
}

func (s *Store) CreateWishlistItem(ctx context.Context, in model.WishlistInput) (model.WishlistItem, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return model.WishlistItem{}, err
	}
	item, err := s.backend.CreateWishlistItem(ctx, in)
	if err != nil {
		return model.WishlistItem{}, err
	}
	s.apply(MutCreateWishlistItem)
	return item, nil
}

func (s *Store) UpdateWishlistItem(ctx context.Context, id int64, in model.WishlistInput) (model.WishlistItem, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return model.WishlistItem{}, err
	}
	item, err := s.backend.UpdateWishlistItem(ctx, id, in)
	if err != nil {
		return model.WishlistItem{}, err
	}
	s.apply(MutUpdateWishlistItem)
	return item, nil
}

func (s *Store) DeleteWishlistItem(ctx context.Context, id int64) error {
	if err := s.backend.DeleteWishlistItem(ctx, id); err != nil {
		return err
	}
	s.apply(MutDeleteWishlistItem)
	return nil
}

// PromoteWishlistItem turns a wishlist entry into a visited restaurant. A zero
// rating lets the backend pick its default.
func (s *Store) PromoteWishlistItem(ctx context.Context, id int64, rating int) (model.Restaurant, error) {
	if rating != 0 && (rating < model.RatingMin || rating > model.RatingMax) {
		return model.Restaurant{}, model.ValidationErrors{
			"rating": fmt.Sprintf("must be between %d and %d", model.RatingMin, model.RatingMax),
		}
	}
	r, err := s.backend.PromoteWishlistItem(ctx, id, api.PromoteRequest{Rating: rating})
	if err != nil {
		return model.Restaurant{}, err
	}
	s.apply(MutPromoteWishlistItem)
	return r, nil
}

// RestaurantSuggestions looks names up in the restaurant pool. It has the
// signature of autocomplete.Fetcher.
func (s *Store) RestaurantSuggestions(ctx context.Context, term string) ([]model.Suggestion, error) {
	return s.backend.Autocomplete(ctx, api.PoolRestaurants, term)
}

// WishlistSuggestions looks names up in the wishlist pool.
func (s *Store) WishlistSuggestions(ctx context.Context, term string) ([]model.Suggestion, error) {
	return s.backend.Autocomplete(ctx, api.PoolWishlist, term)
}

func (s *Store) apply(m Mutation) {
	s.cache.Invalidate(m.Invalidates...)
	s.logger.Debug("invalidated cache",
		slog.String("mutation", m.Name),
		slog.Any("groups", m.Invalidates),
	)
}

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"tastebook/internal/model"
)

// RestaurantQuery filters the restaurant list. Zero values mean no filter.
type RestaurantQuery struct {
	FavoritesOnly bool
	Limit         int
}

func (q RestaurantQuery) encode() string {
	params := url.Values{}
	if q.FavoritesOnly {
		params.Set("favorites", "true")
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + params.Encode()
}

// ListRestaurants returns the user's restaurants, newest first.
func (c *Client) ListRestaurants(ctx context.Context, q RestaurantQuery) ([]model.Restaurant, error) {
	restaurants := []model.Restaurant{}
	err := c.do(ctx, http.MethodGet, "/restaurants"+q.encode(), nil, &restaurants)
	return restaurants, err
}

// GetRestaurant returns a single restaurant.
func (c *Client) GetRestaurant(ctx context.Context, id int64) (model.Restaurant, error) {
	var r model.Restaurant
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/restaurants/%d", id), nil, &r)
	return r, err
}

// CreateRestaurant records a visited restaurant.
func (c *Client) CreateRestaurant(ctx context.Context, in model.RestaurantInput) (model.Restaurant, error) {
	var r model.Restaurant
	err := c.do(ctx, http.MethodPost, "/restaurants", in, &r)
	return r, err
}

// UpdateRestaurant replaces a restaurant's fields.
func (c *Client) UpdateRestaurant(ctx context.Context, id int64, in model.RestaurantInput) (model.Restaurant, error) {
	var r model.Restaurant
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/restaurants/%d", id), in, &r)
	return r, err
}

// DeleteRestaurant removes a restaurant.
func (c *Client) DeleteRestaurant(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/restaurants/%d", id), nil, nil)
}

// RestaurantStats returns the aggregate over the user's restaurants.
func (c *Client) RestaurantStats(ctx context.Context) (model.Stats, error) {
	var s model.Stats
	err := c.do(ctx, http.MethodGet, "/restaurants/stats", nil, &s)
	return s, err
}

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"tastebook/internal/model"
)

// ListWishlist returns the wishlist, highest priority first.
func (c *Client) ListWishlist(ctx context.Context) ([]model.WishlistItem, error) {
	items := []model.WishlistItem{}
	err := c.do(ctx, http.MethodGet, "/wishlist", nil, &items)
	return items, err
}

// ListWishlistByPriority returns the entries with the given priority.
func (c *Client) ListWishlistByPriority(ctx context.Context, p model.Priority) ([]model.WishlistItem, error) {
	items := []model.WishlistItem{}
	err := c.do(ctx, http.MethodGet, "/wishlist/priority/"+url.PathEscape(string(p)), nil, &items)
	return items, err
}

// WishlistCount returns the number of wishlist entries.
func (c *Client) WishlistCount(ctx context.Context) (int64, error) {
	var wc model.WishlistCount
	if err := c.do(ctx, http.MethodGet, "/wishlist/count", nil, &wc); err != nil {
		return 0, err
	}
	return wc.Count, nil
}

// GetWishlistItem returns a single wishlist entry.
func (c *Client) GetWishlistItem(ctx context.Context, id int64) (model.WishlistItem, error) {
	var item model.WishlistItem
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/wishlist/%d", id), nil, &item)
	return item, err
}

// CreateWishlistItem adds a place to the wishlist.
func (c *Client) CreateWishlistItem(ctx context.Context, in model.WishlistInput) (model.WishlistItem, error) {
	var item model.WishlistItem
	err := c.do(ctx, http.MethodPost, "/wishlist", in, &item)
	return item, err
}

// UpdateWishlistItem replaces a wishlist entry's fields.
func (c *Client) UpdateWishlistItem(ctx context.Context, id int64, in model.WishlistInput) (model.WishlistItem, error) {
	var item model.WishlistItem
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/wishlist/%d", id), in, &item)
	return item, err
}

// DeleteWishlistItem removes a wishlist entry.
func (c *Client) DeleteWishlistItem(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/wishlist/%d", id), nil, nil)
}

// PromoteRequest is the optional body of the promote endpoint.
type PromoteRequest struct {
	Rating int `json:"rating,omitempty"`
}

// PromoteWishlistItem converts a wishlist entry into a restaurant. The backend
// deletes the entry and creates the restaurant in one transaction.
func (c *Client) PromoteWishlistItem(ctx context.Context, id int64, req PromoteRequest) (model.Restaurant, error) {
	var r model.Restaurant
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/wishlist/%d/promote", id), req, &r)
	return r, err
}

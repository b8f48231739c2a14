package api

import (
	"context"
	"net/http"

	"tastebook/internal/model"
)

// SuggestionPool selects one of the two independent suggestion endpoints.
type SuggestionPool string

const (
	PoolRestaurants SuggestionPool = "restaurants"
	PoolWishlist    SuggestionPool = "wishlist"
)

type autocompleteRequest struct {
	SearchTerm string `json:"search_term"`
}

type autocompleteResponse struct {
	Suggestions []model.Suggestion `json:"suggestions"`
}

// Autocomplete returns name/city suggestions for term from the given pool.
func (c *Client) Autocomplete(ctx context.Context, pool SuggestionPool, term string) ([]model.Suggestion, error) {
	var resp autocompleteResponse
	if err := c.do(ctx, http.MethodPost, "/autocomplete/"+string(pool), autocompleteRequest{SearchTerm: term}, &resp); err != nil {
		return []model.Suggestion{}, err
	}
	if resp.Suggestions == nil {
		return []model.Suggestion{}, nil
	}
	return resp.Suggestions, nil
}

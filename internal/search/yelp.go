// Package search produces autocomplete suggestions for the backend.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"tastebook/internal/model"
)

const (
	yelpAPIBase     = "https://api.yelp.com/v3"
	defaultLocation = "New York, NY"
	yelpResultLimit = 8
)

// YelpClient wraps the Yelp Fusion business search. Responses are cached
// briefly and outbound calls are rate limited, since every keystroke that
// survives the client's debounce ends up here.
type YelpClient struct {
	apiKey     string
	baseURL    string
	location   string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *expirable.LRU[string, []model.Suggestion]
}

// YelpOption configures a YelpClient.
type YelpOption func(*YelpClient)

// WithBaseURL points the client at a different API root, for tests.
func WithBaseURL(u string) YelpOption {
	return func(c *YelpClient) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithLocation sets the location searches are biased to.
func WithLocation(loc string) YelpOption {
	return func(c *YelpClient) { c.location = loc }
}

// NewYelpClient creates a new Yelp Fusion API client.
func NewYelpClient(apiKey string, opts ...YelpOption) *YelpClient {
	c := &YelpClient{
		apiKey:     apiKey,
		baseURL:    yelpAPIBase,
		location:   defaultLocation,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(5), 5),
		cache:      expirable.NewLRU[string, []model.Suggestion](256, nil, 10*time.Minute),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Autocomplete searches for restaurant businesses whose name matches query.
func (c *YelpClient) Autocomplete(ctx context.Context, query string) ([]model.Suggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.Suggestion{}, nil
	}

	cacheKey := strings.ToLower(query)
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return []model.Suggestion{}, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("term", query)
	params.Set("categories", "restaurants,food")
	params.Set("limit", fmt.Sprint(yelpResultLimit))
	params.Set("sort_by", "best_match")
	params.Set("location", c.location)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/businesses/search?"+params.Encode(), nil)
	if err != nil {
		return []model.Suggestion{}, fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return []model.Suggestion{}, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return []model.Suggestion{}, fmt.Errorf("API error: status %d", resp.StatusCode)
	}

	var result businessSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return []model.Suggestion{}, fmt.Errorf("JSON decode error: %w", err)
	}

	suggestions := make([]model.Suggestion, 0, len(result.Businesses))
	for _, business := range result.Businesses {
		s := model.Suggestion{Name: business.Name}
		if business.Location != nil {
			s.City = business.Location.City
		}
		suggestions = append(suggestions, s)
	}

	c.cache.Add(cacheKey, suggestions)
	return suggestions, nil
}

type businessSearchResponse struct {
	Businesses []business `json:"businesses"`
	Total      int        `json:"total"`
}

type business struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Location *location `json:"location"`
}

type location struct {
	City string `json:"city"`
}

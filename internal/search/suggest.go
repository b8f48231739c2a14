package search

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"unicode/utf8"

	"tastebook/internal/db"
	"tastebook/internal/model"
)

// Pool names one of the two suggestion sources.
type Pool string

const (
	PoolRestaurants Pool = "restaurants"
	PoolWishlist    Pool = "wishlist"
)

// MinTermLength is the shortest term that produces suggestions.
const MinTermLength = 2

const maxSuggestions = 8

// Upstream is an external name source such as YelpClient.
type Upstream interface {
	Autocomplete(ctx context.Context, query string) ([]model.Suggestion, error)
}

// Suggester merges names from the user's own rows with an optional upstream
// source. Local matches come first.
type Suggester struct {
	db       *sql.DB
	upstream Upstream
	logger   *slog.Logger
}

// NewSuggester creates a suggester. upstream may be nil.
func NewSuggester(database *sql.DB, upstream Upstream, logger *slog.Logger) *Suggester {
	if logger == nil {
		logger = slog.Default()
	}
	return &Suggester{db: database, upstream: upstream, logger: logger}
}

// Suggest returns at most eight suggestions for term from pool.
func (s *Suggester) Suggest(ctx context.Context, userID int64, pool Pool, term string) ([]model.Suggestion, error) {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < MinTermLength {
		return []model.Suggestion{}, nil
	}

	var local []model.Suggestion
	var err error
	switch pool {
	case PoolWishlist:
		local, err = db.SearchWishlistNames(ctx, s.db, userID, term, maxSuggestions)
	default:
		local, err = db.SearchRestaurantNames(ctx, s.db, userID, term, maxSuggestions)
	}
	if err != nil {
		return nil, err
	}

	if s.upstream == nil || len(local) >= maxSuggestions {
		return local, nil
	}

	remote, err := s.upstream.Autocomplete(ctx, term)
	if err != nil {
		s.logger.Warn("upstream autocomplete failed",
			slog.String("pool", string(pool)),
			slog.String("error", err.Error()),
		)
		return local, nil
	}

	return merge(local, remote, maxSuggestions), nil
}

func merge(local, remote []model.Suggestion, limit int) []model.Suggestion {
	seen := make(map[string]struct{}, len(local)+len(remote))
	out := make([]model.Suggestion, 0, limit)
	for _, list := range [][]model.Suggestion{local, remote} {
		for _, s := range list {
			key := strings.ToLower(s.Name) + "\x00" + strings.ToLower(s.City)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, s)
			if len(out) == limit {
				return out
			}
		}
	}
	return out
}

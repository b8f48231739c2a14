package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tastebook/internal/model"
)

// RestaurantFilter narrows ListRestaurants. Zero values mean no filter.
type RestaurantFilter struct {
	FavoritesOnly bool
	Limit         int
}

const restaurantColumns = `id, name, city, description, rating, is_favorite, created_at, updated_at`

func scanRestaurant(row interface{ Scan(...any) error }) (model.Restaurant, error) {
	var r model.Restaurant
	var isFavorite int
	var createdAt, updatedAt string
	if err := row.Scan(&r.ID, &r.Name, &r.City, &r.Description, &r.Rating, &isFavorite, &createdAt, &updatedAt); err != nil {
		return model.Restaurant{}, err
	}
	r.IsFavorite = isFavorite == 1
	r.CreatedAt = parseTime(createdAt)
	r.UpdatedAt = parseTime(updatedAt)
	return r, nil
}

// ListRestaurants returns a user's restaurants, newest first.
func ListRestaurants(ctx context.Context, db *sql.DB, userID int64, f RestaurantFilter) ([]model.Restaurant, error) {
	query := `
		SELECT ` + restaurantColumns + `
		FROM restaurants
		WHERE user_id = ? AND (? = 0 OR is_favorite = 1)
		ORDER BY created_at DESC, id DESC
	`
	args := []any{userID, boolToInt(f.FavoritesOnly)}
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	defer rows.Close()

	results := []model.Restaurant{}
	for rows.Next() {
		r, err := scanRestaurant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan restaurant row: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating restaurant rows: %w", err)
	}

	return results, nil
}

// GetRestaurant retrieves one of a user's restaurants.
func GetRestaurant(ctx context.Context, db *sql.DB, userID, id int64) (model.Restaurant, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+restaurantColumns+`
		FROM restaurants
		WHERE id = ? AND user_id = ?
	`, id, userID)
	r, err := scanRestaurant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Restaurant{}, ErrNotFound
	}
	if err != nil {
		return model.Restaurant{}, fmt.Errorf("failed to get restaurant: %w", err)
	}
	return r, nil
}

// InsertRestaurant creates a restaurant and returns it.
func InsertRestaurant(ctx context.Context, db *sql.DB, userID int64, in model.RestaurantInput) (model.Restaurant, error) {
	result, err := db.ExecContext(ctx, `
		INSERT INTO restaurants (user_id, name, city, description, rating, is_favorite)
		VALUES (?, ?, ?, ?, ?, ?)
	`, userID, in.Name, in.City, in.Description, in.Rating, boolToInt(in.IsFavorite))
	if err != nil {
		return model.Restaurant{}, fmt.Errorf("failed to insert restaurant: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.Restaurant{}, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return GetRestaurant(ctx, db, userID, id)
}

// UpdateRestaurant replaces a restaurant's fields and returns the new row.
func UpdateRestaurant(ctx context.Context, db *sql.DB, userID, id int64, in model.RestaurantInput) (model.Restaurant, error) {
	result, err := db.ExecContext(ctx, `
		UPDATE restaurants
		SET name = ?, city = ?, description = ?, rating = ?, is_favorite = ?,
		    updated_at = strftime('%Y-%m-%dT%H:%M:%fZ','now')
		WHERE id = ? AND user_id = ?
	`, in.Name, in.City, in.Description, in.Rating, boolToInt(in.IsFavorite), id, userID)
	if err != nil {
		return model.Restaurant{}, fmt.Errorf("failed to update restaurant: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return model.Restaurant{}, ErrNotFound
	}
	return GetRestaurant(ctx, db, userID, id)
}

// DeleteRestaurant deletes one of a user's restaurants.
func DeleteRestaurant(ctx context.Context, db *sql.DB, userID, id int64) error {
	result, err := db.ExecContext(ctx, "DELETE FROM restaurants WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete restaurant: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// RestaurantStats aggregates a user's restaurants. The average is rounded to
// one decimal and is "0.0" when there are none.
func RestaurantStats(ctx context.Context, db *sql.DB, userID int64) (model.Stats, error) {
	var s model.Stats
	var avg float64
	err := db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(is_favorite), 0),
			COALESCE(ROUND(AVG(rating), 1), 0)
		FROM restaurants
		WHERE user_id = ?
	`, userID).Scan(&s.TotalRestaurants, &s.TotalFavorites, &avg)
	if err != nil {
		return model.Stats{}, fmt.Errorf("failed to compute restaurant stats: %w", err)
	}
	s.AverageRating = fmt.Sprintf("%.1f", avg)
	return s, nil
}

// SearchRestaurantNames returns distinct name/city pairs from a user's
// restaurants whose name contains term.
func SearchRestaurantNames(ctx context.Context, db *sql.DB, userID int64, term string, limit int) ([]model.Suggestion, error) {
	return searchNames(ctx, db, "restaurants", userID, term, limit)
}

func searchNames(ctx context.Context, db *sql.DB, table string, userID int64, term string, limit int) ([]model.Suggestion, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`
		SELECT DISTINCT name, city
		FROM %s
		WHERE user_id = ? AND name LIKE '%%' || ? || '%%'
		ORDER BY name
		LIMIT ?
	`, table), userID, term, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", table, err)
	}
	defer rows.Close()

	results := []model.Suggestion{}
	for rows.Next() {
		var s model.Suggestion
		if err := rows.Scan(&s.Name, &s.City); err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}
		results = append(results, s)
	}
	return results, rows.Err()
}

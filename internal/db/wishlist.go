package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tastebook/internal/model"
)

const wishlistColumns = `id, name, city, notes, priority, created_at, updated_at`

// wishlistOrder sorts high priority first, newest first within a priority.
const wishlistOrder = `
	ORDER BY CASE priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END DESC,
	         created_at DESC, id DESC`

func scanWishlistItem(row interface{ Scan(...any) error }) (model.WishlistItem, error) {
	var it model.WishlistItem
	var priority, createdAt, updatedAt string
	if err := row.Scan(&it.ID, &it.Name, &it.City, &it.Notes, &priority, &createdAt, &updatedAt); err != nil {
		return model.WishlistItem{}, err
	}
	it.Priority = model.Priority(priority)
	it.CreatedAt = parseTime(createdAt)
	it.UpdatedAt = parseTime(updatedAt)
	return it, nil
}

func queryWishlist(ctx context.Context, db *sql.DB, where string, args ...any) ([]model.WishlistItem, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+wishlistColumns+` FROM wishlist WHERE `+where+wishlistOrder, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	defer rows.Close()

	results := []model.WishlistItem{}
	for rows.Next() {
		it, err := scanWishlistItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wishlist row: %w", err)
		}
		results = append(results, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wishlist rows: %w", err)
	}
	return results, nil
}

// ListWishlist returns a user's wishlist.
func ListWishlist(ctx context.Context, db *sql.DB, userID int64) ([]model.WishlistItem, error) {
	return queryWishlist(ctx, db, "user_id = ?", userID)
}

// ListWishlistByPriority returns a user's entries with the given priority.
func ListWishlistByPriority(ctx context.Context, db *sql.DB, userID int64, p model.Priority) ([]model.WishlistItem, error) {
	return queryWishlist(ctx, db, "user_id = ? AND priority = ?", userID, string(p))
}

// CountWishlist returns the number of entries in a user's wishlist.
func CountWishlist(ctx context.Context, db *sql.DB, userID int64) (int64, error) {
	var n int64
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM wishlist WHERE user_id = ?", userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count wishlist: %w", err)
	}
	return n, nil
}

// GetWishlistItem retrieves one of a user's entries.
func GetWishlistItem(ctx context.Context, db *sql.DB, userID, id int64) (model.WishlistItem, error) {
	row := db.QueryRowContext(ctx, `SELECT `+wishlistColumns+` FROM wishlist WHERE id = ? AND user_id = ?`, id, userID)
	it, err := scanWishlistItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.WishlistItem{}, ErrNotFound
	}
	if err != nil {
		return model.WishlistItem{}, fmt.Errorf("failed to get wishlist item: %w", err)
	}
	return it, nil
}

// InsertWishlistItem creates an entry and returns it.
func InsertWishlistItem(ctx context.Context, db *sql.DB, userID int64, in model.WishlistInput) (model.WishlistItem, error) {
	result, err := db.ExecContext(ctx, `
		INSERT INTO wishlist (user_id, name, city, notes, priority)
		VALUES (?, ?, ?, ?, ?)
	`, userID, in.Name, in.City, in.Notes, string(in.Priority))
	if err != nil {
		return model.WishlistItem{}, fmt.Errorf("failed to insert wishlist item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.WishlistItem{}, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return GetWishlistItem(ctx, db, userID, id)
}

// UpdateWishlistItem replaces an entry's fields and returns the new row.
func UpdateWishlistItem(ctx context.Context, db *sql.DB, userID, id int64, in model.WishlistInput) (model.WishlistItem, error) {
	result, err := db.ExecContext(ctx, `
		UPDATE wishlist
		SET name = ?, city = ?, notes = ?, priority = ?,
		    updated_at = strftime('%Y-%m-%dT%H:%M:%fZ','now')
		WHERE id = ? AND user_id = ?
	`, in.Name, in.City, in.Notes, string(in.Priority), id, userID)
	if err != nil {
		return model.WishlistItem{}, fmt.Errorf("failed to update wishlist item: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return model.WishlistItem{}, ErrNotFound
	}
	return GetWishlistItem(ctx, db, userID, id)
}

// DeleteWishlistItem deletes one of a user's entries.
func DeleteWishlistItem(ctx context.Context, db *sql.DB, userID, id int64) error {
	result, err := db.ExecContext(ctx, "DELETE FROM wishlist WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete wishlist item: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// PromoteWishlistItem converts an entry into a restaurant in one transaction:
// the restaurant is created from the entry's name and city, its notes become
// the description, and the entry is deleted.
func PromoteWishlistItem(ctx context.Context, db *sql.DB, userID, id int64, rating int) (model.Restaurant, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return model.Restaurant{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var name, city, notes string
	err = tx.QueryRowContext(ctx, `
		SELECT name, city, notes FROM wishlist WHERE id = ? AND user_id = ?
	`, id, userID).Scan(&name, &city, &notes)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Restaurant{}, ErrNotFound
	}
	if err != nil {
		return model.Restaurant{}, fmt.Errorf("failed to get wishlist item: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO restaurants (user_id, name, city, description, rating, is_favorite)
		VALUES (?, ?, ?, ?, ?, 0)
	`, userID, name, city, notes, rating)
	if err != nil {
		return model.Restaurant{}, fmt.Errorf("failed to insert restaurant: %w", err)
	}
	restaurantID, err := result.LastInsertId()
	if err != nil {
		return model.Restaurant{}, fmt.Errorf("failed to get last insert id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM wishlist WHERE id = ? AND user_id = ?", id, userID); err != nil {
		return model.Restaurant{}, fmt.Errorf("failed to delete wishlist item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.Restaurant{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return GetRestaurant(ctx, db, userID, restaurantID)
}

// SearchWishlistNames returns distinct name/city pairs from a user's wishlist
// whose name contains term.
func SearchWishlistNames(ctx context.Context, db *sql.DB, userID int64, term string, limit int) ([]model.Suggestion, error) {
	return searchNames(ctx, db, "wishlist", userID, term, limit)
}

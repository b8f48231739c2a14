package ui

import (
	"fmt"
	"strconv"
	"time"

	"tastebook/internal/model"
	"tastebook/internal/util"
)

// RecentLimit is how many restaurants the recent view shows.
const RecentLimit = 5

// RestaurantsModel represents the restaurants list screen.
type RestaurantsModel struct {
	*Table[model.Restaurant]
	view  model.RestaurantView
	stale bool
}

// NewRestaurantsModel creates an empty restaurants list showing view.
func NewRestaurantsModel(view model.RestaurantView) *RestaurantsModel {
	columns := []column[model.Restaurant]{
		{key: "name", label: "name", width: 26, value: func(r model.Restaurant) string { return r.Name }},
		{key: "city", label: "city", width: 16, value: func(r model.Restaurant) string { return r.City }},
		{
			key: "rating", label: "rating", width: 8,
			value: func(r model.Restaurant) string { return strconv.Itoa(r.Rating) },
			render: func(r model.Restaurant, _ int) string {
				return RatingStyle.Render(util.FormatRatingStars(r.Rating))
			},
		},
		{
			key: "fav", label: "fav", width: 4,
			value: func(r model.Restaurant) string { return util.FormatYesNo(r.IsFavorite) },
			render: func(r model.Restaurant, _ int) string {
				return FavoriteStyle.Render(util.FormatFavoriteSymbol(r.IsFavorite))
			},
		},
		{key: "notes", label: "notes", width: 24, value: func(r model.Restaurant) string { return r.Description }},
		{
			key: "added", label: "added", width: 12,
			value:  func(r model.Restaurant) string { return r.CreatedAt.UTC().Format(time.RFC3339) },
			render: func(r model.Restaurant, _ int) string { return util.FormatDateHuman(r.CreatedAt) },
		},
	}
	return &RestaurantsModel{
		Table: newTable(columns, func(r model.Restaurant) int64 { return r.ID }),
		view:  view,
	}
}

// Load replaces the rows with the result of a read for the current view.
func (m *RestaurantsModel) Load(msg model.RestaurantsLoadedMsg) {
	m.stale = msg.Stale
	m.SetRows(msg.Restaurants)
}

// View renders the restaurants list.
func (m *RestaurantsModel) View(width, height int) string {
	var empty string
	switch m.view {
	case model.ViewFavorites:
		empty = "    No favorites yet.\n    Press  f  to switch the view."
	default:
		empty = "    No restaurants yet.\n    Press  a  to add your first restaurant!"
	}

	summary := fmt.Sprintf("%d restaurants  ·  view %s", m.Len(), m.view)
	if m.view == model.ViewRecent {
		summary = fmt.Sprintf("last %d added  ·  view %s", RecentLimit, m.view)
	}
	if m.stale {
		summary += "  ·  offline, showing cached"
	}
	return m.Table.View(width, height, empty, summary)
}

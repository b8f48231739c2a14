package ui

import (
	"fmt"
	"strings"

	"tastebook/internal/model"
	"tastebook/internal/util"

	"github.com/charmbracelet/lipgloss"
)

// StatsModel is the overview screen: backend aggregates, the wishlist count
// and the most recently added restaurants.
type StatsModel struct {
	stats         model.Stats
	wishlistCount int64
	recent        []model.Restaurant
}

// NewStatsModel creates the overview from a completed load.
func NewStatsModel(msg model.StatsLoadedMsg) *StatsModel {
	return &StatsModel{stats: msg.Stats, wishlistCount: msg.WishlistCount, recent: msg.Recent}
}

// View renders the overview.
func (m *StatsModel) View(width, height int) string {
	tiles := lipgloss.JoinHorizontal(lipgloss.Top,
		statTile("restaurants", fmt.Sprint(m.stats.TotalRestaurants)),
		statTile("favorites", fmt.Sprint(m.stats.TotalFavorites)),
		statTile("avg rating", m.stats.AverageRating),
		statTile("wishlist", fmt.Sprint(m.wishlistCount)),
	)

	recent := []string{LabelStyle.Render("Recently added")}
	if len(m.recent) == 0 {
		recent = append(recent, HelpDescStyle.Render("Nothing yet."))
	}
	for _, r := range m.recent {
		recent = append(recent, fmt.Sprintf("%s  %s  %s",
			RatingStyle.Render(util.FormatRatingStars(r.Rating)),
			NormalRowStyle.Render(util.TruncateString(r.Name, 32)),
			HelpDescStyle.Render(r.City+" · "+util.FormatDateHuman(r.CreatedAt)),
		))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, tiles, "", strings.Join(recent, "\n"))
	return PanelStyle.Width(width - 4).Height(max(1, height-4)).Render(body)
}

func statTile(label, value string) string {
	return BorderStyle.Width(18).Render(lipgloss.JoinVertical(lipgloss.Left,
		HelpDescStyle.Render(label),
		LabelStyle.Render(value),
	))
}

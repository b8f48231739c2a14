package ui

import (
	"strings"

	"tastebook/internal/model"
	"tastebook/internal/util"

	"github.com/charmbracelet/lipgloss"
)

// RestaurantDetailModel represents the restaurant detail screen.
type RestaurantDetailModel struct {
	restaurant    model.Restaurant
	confirmDelete bool
}

// NewRestaurantDetailModel creates a new restaurant detail model.
func NewRestaurantDetailModel(r model.Restaurant) *RestaurantDetailModel {
	return &RestaurantDetailModel{restaurant: r}
}

// View renders the restaurant detail.
func (m *RestaurantDetailModel) View(width, height int) string {
	r := m.restaurant

	shortcuts := HelpDescStyle.Render("e edit  f favorite  d delete  h back")
	if m.confirmDelete {
		shortcuts = ErrorStyle.Render("Delete " + r.Name + "? press d again to confirm, esc to keep")
	}
	header := lipgloss.NewStyle().
		Width(width - 4).
		Align(lipgloss.Right).
		Render(shortcuts)

	fields := []string{
		renderField("Name", r.Name),
		renderField("City", r.City),
		LabelStyle.Render("Rating:") + " " + RatingStyle.Render(util.FormatRatingStars(r.Rating)),
		renderField("Favorite", util.FormatYesNo(r.IsFavorite)),
		renderField("Added", util.FormatDate(r.CreatedAt)),
	}
	sections := []string{strings.Join(fields, "\n")}

	if r.Description != "" {
		divider := lipgloss.NewStyle().
			Foreground(ColorMuted).
			Render(strings.Repeat("─", max(0, width-8)))
		sections = append(sections, divider, LabelStyle.Render("Notes:"), NormalRowStyle.Render(r.Description))
	}

	info := PanelStyle.
		Width(width - 4).
		Render(strings.Join(sections, "\n\n"))

	return lipgloss.JoinVertical(lipgloss.Left, header, info)
}

func renderField(label, value string) string {
	if value == "" {
		value = "—"
	}
	return LabelStyle.Render(label+":") + " " + NormalRowStyle.Render(value)
}

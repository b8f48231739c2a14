package ui

import (
	"fmt"
	"strconv"
	"time"

	"tastebook/internal/model"
	"tastebook/internal/util"

	"github.com/charmbracelet/lipgloss"
)

// WishlistModel represents the wishlist screen.
type WishlistModel struct {
	*Table[model.WishlistItem]
	priority model.Priority
	stale    bool
}

// NewWishlistModel creates an empty wishlist. An empty priority shows every
// entry.
func NewWishlistModel(priority model.Priority) *WishlistModel {
	columns := []column[model.WishlistItem]{
		{key: "name", label: "name", width: 26, value: func(w model.WishlistItem) string { return w.Name }},
		{key: "city", label: "city", width: 16, value: func(w model.WishlistItem) string { return w.City }},
		{
			key: "priority", label: "priority", width: 9,
			// Rank keeps high above medium above low when sorted descending.
			value: func(w model.WishlistItem) string { return strconv.Itoa(w.Priority.Rank()) + string(w.Priority) },
			render: func(w model.WishlistItem, _ int) string {
				return priorityStyle(w.Priority).Render(string(w.Priority))
			},
		},
		{key: "notes", label: "notes", width: 28, value: func(w model.WishlistItem) string { return w.Notes }},
		{
			key: "added", label: "added", width: 12,
			value:  func(w model.WishlistItem) string { return w.CreatedAt.UTC().Format(time.RFC3339) },
			render: func(w model.WishlistItem, _ int) string { return util.FormatDateHuman(w.CreatedAt) },
		},
	}
	return &WishlistModel{
		Table:    newTable(columns, func(w model.WishlistItem) int64 { return w.ID }),
		priority: priority,
	}
}

// Load replaces the rows with the result of a wishlist read.
func (m *WishlistModel) Load(msg model.WishlistLoadedMsg) {
	m.stale = msg.Stale
	m.SetRows(msg.Items)
}

// NextPriorityFilter cycles all → high → medium → low → all.
func NextPriorityFilter(p model.Priority) model.Priority {
	switch p {
	case "":
		return model.PriorityHigh
	case model.PriorityHigh:
		return model.PriorityMedium
	case model.PriorityMedium:
		return model.PriorityLow
	}
	return ""
}

func priorityStyle(p model.Priority) lipgloss.Style {
	switch p {
	case model.PriorityHigh:
		return lipgloss.NewStyle().Foreground(ColorRed)
	case model.PriorityMedium:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	}
	return lipgloss.NewStyle().Foreground(ColorMuted)
}

// View renders the wishlist.
func (m *WishlistModel) View(width, height int) string {
	empty := "    Your wishlist is empty.\n    Press  a  to add a place to try!"
	filter := "all"
	if m.priority != "" {
		filter = string(m.priority)
		empty = fmt.Sprintf("    No %s priority places.\n    Press  p  to change the filter.", m.priority)
	}
	summary := fmt.Sprintf("%d places  ·  priority %s", m.Len(), filter)
	if m.stale {
		summary += "  ·  offline, showing cached"
	}
	return m.Table.View(width, height, empty, summary)
}

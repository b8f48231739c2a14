package ui

import (
	"strconv"
	"strings"

	"tastebook/internal/model"
	"tastebook/internal/util"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DefaultPromoteRating is prefilled in the promote prompt.
const DefaultPromoteRating = 3

// WishlistDetailModel represents the wishlist entry detail screen. Pressing p
// opens a rating prompt; the entry is promoted when it is confirmed.
type WishlistDetailModel struct {
	item          model.WishlistItem
	confirmDelete bool
	promoting     bool
	rating        textinput.Model
	error         string
}

// NewWishlistDetailModel creates a new wishlist detail model.
func NewWishlistDetailModel(item model.WishlistItem) *WishlistDetailModel {
	rating := textinput.New()
	rating.Placeholder = "1-5"
	rating.CharLimit = 1
	return &WishlistDetailModel{item: item, rating: rating}
}

// StartPromote opens the rating prompt.
func (m *WishlistDetailModel) StartPromote() tea.Cmd {
	m.promoting = true
	m.error = ""
	m.rating.SetValue(strconv.Itoa(DefaultPromoteRating))
	m.rating.CursorEnd()
	return m.rating.Focus()
}

// CancelPromote closes the rating prompt.
func (m *WishlistDetailModel) CancelPromote() {
	m.promoting = false
	m.error = ""
	m.rating.Blur()
}

// PromoteRating parses the prompt. An invalid value leaves the prompt open
// with an error.
func (m *WishlistDetailModel) PromoteRating() (int, bool) {
	r, err := util.ParseRating(m.rating.Value(), model.RatingMin, model.RatingMax, DefaultPromoteRating)
	if err != nil {
		m.error = err.Error()
		return 0, false
	}
	return r, true
}

// UpdatePrompt forwards input to the rating prompt.
func (m *WishlistDetailModel) UpdatePrompt(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.rating, cmd = m.rating.Update(msg)
	return cmd
}

// View renders the wishlist detail.
func (m *WishlistDetailModel) View(width, height int) string {
	shortcuts := HelpDescStyle.Render("p mark visited  e edit  d delete  h back")
	if m.confirmDelete {
		shortcuts = ErrorStyle.Render("Delete " + m.item.Name + "? press d again to confirm, esc to keep")
	}
	header := lipgloss.NewStyle().
		Width(width - 4).
		Align(lipgloss.Right).
		Render(shortcuts)

	fields := []string{
		renderField("Name", m.item.Name),
		renderField("City", m.item.City),
		LabelStyle.Render("Priority:") + " " + priorityStyle(m.item.Priority).Render(string(m.item.Priority)),
		renderField("Added", util.FormatDate(m.item.CreatedAt)),
	}
	sections := []string{strings.Join(fields, "\n")}

	if m.item.Notes != "" {
		divider := lipgloss.NewStyle().
			Foreground(ColorMuted).
			Render(strings.Repeat("─", max(0, width-8)))
		sections = append(sections, divider, LabelStyle.Render("Notes:"), NormalRowStyle.Render(m.item.Notes))
	}

	if m.promoting {
		prompt := renderFormField("Visited! Your rating (1-5), enter to confirm", m.rating, true)
		if m.error != "" {
			prompt = lipgloss.JoinVertical(lipgloss.Left, prompt, ErrorStyle.Render(m.error))
		}
		sections = append(sections, prompt)
	}

	info := PanelStyle.
		Width(width - 4).
		Render(strings.Join(sections, "\n\n"))

	return lipgloss.JoinVertical(lipgloss.Left, header, info)
}

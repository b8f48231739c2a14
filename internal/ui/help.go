package ui

import (
	"strings"

	"tastebook/internal/model"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// RenderHelp renders the context-sensitive help footer.
func RenderHelp(screen model.Screen, mode model.Mode, width int) string {
	keys := DefaultKeyMap()

	var items []string
	switch {
	case screen == model.ScreenLogin || screen == model.ScreenRegister:
		items = []string{
			bindingHelp(formKeys.NextField),
			bindingHelp(formKeys.Submit),
			helpKey("ctrl+r", "log in / create account"),
			helpKey("ctrl+c", "quit"),
		}
	case screen == model.ScreenWishlistDetail && mode == model.ModeInsert:
		items = []string{
			helpKey("enter", "mark visited"),
			helpKey("esc", "cancel"),
		}
	case mode == model.ModeInsert:
		items = []string{
			bindingHelp(formKeys.NextField),
			bindingHelp(formKeys.PrevField),
			helpKey("↑/↓", "suggestions"),
			bindingHelp(formKeys.Save),
			bindingHelp(formKeys.Cancel),
		}
	case screen == model.ScreenRestaurants:
		items = []string{
			helpKey("j/k", "navigate"),
			bindingHelp(keys.NextColumn),
			helpKey("s/S", "sort"),
			helpKey("n/N", "filter"),
			bindingHelp(keys.CycleView),
			helpKey("a", "add restaurant"),
			helpKey("enter", "details"),
			helpKey("w/o", "wishlist/overview"),
		}
	case screen == model.ScreenWishlist:
		items = []string{
			helpKey("j/k", "navigate"),
			bindingHelp(keys.NextColumn),
			helpKey("s/S", "sort"),
			helpKey("n/N", "filter"),
			bindingHelp(keys.Priority),
			helpKey("a", "add place"),
			helpKey("enter", "details"),
			helpKey("r/o", "restaurants/overview"),
		}
	case screen == model.ScreenStats:
		items = []string{
			helpKey("r", "restaurants"),
			helpKey("w", "wishlist"),
			helpKey("←/→", "tabs"),
			bindingHelp(keys.Logout),
			bindingHelp(keys.Quit),
		}
	case screen == model.ScreenRestaurantDetail:
		items = []string{
			bindingHelp(keys.Back),
			bindingHelp(keys.Edit),
			bindingHelp(keys.Favorite),
			bindingHelp(keys.Delete),
		}
	case screen == model.ScreenWishlistDetail:
		items = []string{
			bindingHelp(keys.Back),
			helpKey("p", "mark visited"),
			bindingHelp(keys.Edit),
			bindingHelp(keys.Delete),
		}
	default:
		items = []string{
			helpKey("q", "quit"),
		}
	}
	return renderHelpLine(items, width)
}

func bindingHelp(b key.Binding) string {
	h := b.Help()
	return helpKey(h.Key, h.Desc)
}

func helpKey(key, desc string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(desc)
}

func renderHelpLine(keys []string, width int) string {
	return FooterStyle.Width(width).Render(strings.Join(keys, "  "))
}

// RenderFullHelp renders the full help screen.
func RenderFullHelp(width, height int) string {
	content := lipgloss.NewStyle().
		Width(max(1, width-4)).
		Height(max(1, height-6)).
		Padding(1, 2)

	sections := []string{
		titleSection("Navigation"),
		helpSection([]helpItem{
			{"j / ↓", "Move down"},
			{"k / ↑", "Move up"},
			{"h / b / esc", "Go back"},
			{"l / enter", "Open / select"},
			{"← / →", "Previous / next tab"},
			{"r / w / o", "Restaurants / wishlist / overview"},
			{"gg", "Jump to top"},
			{"G", "Jump to bottom"},
			{"ctrl+d / ctrl+u", "Half page down / up"},
			{"L", "Log out"},
			{"q", "Quit (from a tab)"},
			{"?", "Toggle help"},
		}),
		titleSection("Lists"),
		helpSection([]helpItem{
			{"tab / shift+tab", "Cycle active column"},
			{"/ then 1-9", "Jump to column"},
			{"s / S", "Sort active column asc/desc"},
			{"c / C", "Hide active column / show all"},
			{"n / N", "Filter by selected value / clear"},
			{"a", "Add"},
		}),
		titleSection("Restaurants"),
		helpSection([]helpItem{
			{"f", "Cycle all / favorites / recent (list)"},
			{"f", "Toggle favorite (detail)"},
			{"e", "Edit (detail)"},
			{"d d", "Delete (detail)"},
		}),
		titleSection("Wishlist"),
		helpSection([]helpItem{
			{"p", "Cycle priority filter (list)"},
			{"p", "Mark visited and rate (detail)"},
			{"e", "Edit (detail)"},
			{"d d", "Delete (detail)"},
		}),
		titleSection("Forms"),
		helpSection([]helpItem{
			{"tab / shift+tab", "Next / previous field"},
			{"↑ / ↓ then enter", "Pick a suggestion"},
			{"enter", "Next field, save on the last"},
			{"ctrl+s", "Save"},
			{"esc", "Close suggestions / cancel"},
		}),
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Width(width).Render("Help"),
		content.Render(strings.Join(sections, "\n\n")),
		FooterStyle.Width(width).Render(helpKey("esc", "close help")),
	)
}

type helpItem struct {
	key  string
	desc string
}

func titleSection(title string) string {
	return LabelStyle.Render(title)
}

func helpSection(items []helpItem) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "  "+HelpKeyStyle.Render(item.key)+" - "+HelpDescStyle.Render(item.desc))
	}
	return strings.Join(lines, "\n")
}

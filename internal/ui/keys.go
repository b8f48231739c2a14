package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// bind builds a binding whose help label is the first key unless a label is
// given explicitly with a leading "label:" entry.
func bind(desc string, keys ...string) key.Binding {
	label := keys[0]
	if l, ok := strings.CutPrefix(keys[0], "label:"); ok {
		label, keys = l, keys[1:]
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, desc))
}

// KeyMap holds the nav mode bindings. Some keys are shared between screens
// (f toggles a favorite on the detail and cycles the view on the list).
type KeyMap struct {
	// movement
	Up, Down, Top, Bottom    key.Binding
	HalfPageDown, HalfPageUp key.Binding
	Select, Back             key.Binding

	// tabs
	PrevTab, NextTab                key.Binding
	Restaurants, Wishlist, Overview key.Binding

	// records
	Add, Edit, Delete   key.Binding
	Favorite, CycleView key.Binding
	Priority            key.Binding

	// table columns
	NextColumn, PrevColumn   key.Binding
	SortAsc, SortDesc        key.Binding
	HideColumn, ShowColumns  key.Binding
	FilterValue, ClearFilter key.Binding
	ColumnJump               key.Binding

	Help, Logout, Quit key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:           bind("up", "label:k/↑", "k", "up"),
		Down:         bind("down", "label:j/↓", "j", "down"),
		Top:          bind("top", "label:gg", "g"),
		Bottom:       bind("bottom", "G"),
		HalfPageDown: bind("half page down", "ctrl+d"),
		HalfPageUp:   bind("half page up", "ctrl+u"),
		Select:       bind("open", "label:enter/l", "enter", "l"),
		Back:         bind("back", "label:h/esc", "h", "b", "esc"),

		PrevTab:     bind("prev tab", "label:←", "left"),
		NextTab:     bind("next tab", "label:→", "right"),
		Restaurants: bind("restaurants", "r"),
		Wishlist:    bind("wishlist", "w"),
		Overview:    bind("overview", "o"),

		Add:       bind("add", "a"),
		Edit:      bind("edit", "e"),
		Delete:    bind("delete", "label:dd", "d"),
		Favorite:  bind("favorite", "f"),
		CycleView: bind("all/favorites/recent", "f"),
		Priority:  bind("priority", "p"),

		NextColumn:  bind("next col", "tab"),
		PrevColumn:  bind("prev col", "shift+tab"),
		SortAsc:     bind("sort asc", "s"),
		SortDesc:    bind("sort desc", "S"),
		HideColumn:  bind("hide col", "c"),
		ShowColumns: bind("show cols", "C"),
		FilterValue: bind("filter on value", "n"),
		ClearFilter: bind("clear filter", "N"),
		ColumnJump:  bind("jump to col", "/"),

		Help:   bind("help", "?"),
		Logout: bind("log out", "L"),
		Quit:   bind("quit", "q"),
	}
}

// FormKeyMap holds the insert mode bindings shared by every form.
type FormKeyMap struct {
	NextField, PrevField key.Binding
	Submit, Save, Cancel key.Binding
}

var formKeys = FormKeyMap{
	NextField: bind("next field", "tab"),
	PrevField: bind("prev field", "shift+tab"),
	Submit:    bind("next / submit", "enter"),
	Save:      bind("save", "ctrl+s"),
	Cancel:    bind("cancel", "esc"),
}

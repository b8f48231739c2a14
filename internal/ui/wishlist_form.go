package ui

import (
	"strings"

	"tastebook/internal/autocomplete"
	"tastebook/internal/data"
	"tastebook/internal/model"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	wfName = iota
	wfCity
	wfPriority
	wfNotes
)

// WishlistFormModel adds or edits a wishlist entry. The name field suggests
// names from the wishlist pool.
type WishlistFormModel struct {
	form
	store   *data.Store
	itemID  int64
	suggest *suggestField
}

// NewWishlistFormModel creates an empty form. box may be nil when
// autocomplete is disabled.
func NewWishlistFormModel(store *data.Store, box *autocomplete.Box) *WishlistFormModel {
	m := &WishlistFormModel{
		form: form{fields: []formField{
			newFormField("name", "Name *", "Search or type a place...", model.NameMaxLen),
			newFormField("city", "City *", "Paris", model.CityMaxLen),
			newFormField("priority", "Priority (low/medium/high)", "medium", 6),
			newFormField("notes", "Notes", "Why you want to go...", model.NotesMaxLen),
		}},
		store:   store,
		suggest: newSuggestField(box),
	}
	m.focus(wfName)
	return m
}

// LoadItem fills the form for editing item.
func (m *WishlistFormModel) LoadItem(item model.WishlistItem) {
	m.itemID = item.ID
	m.fields[wfName].input.SetValue(item.Name)
	m.fields[wfCity].input.SetValue(item.City)
	m.fields[wfPriority].input.SetValue(string(item.Priority))
	m.fields[wfNotes].input.SetValue(item.Notes)
}

// Editing reports whether the form edits an existing entry.
func (m *WishlistFormModel) Editing() bool { return m.itemID > 0 }

func (m *WishlistFormModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.suggest.Init())
}

// Reset clears the form after a successful create.
func (m *WishlistFormModel) Reset() tea.Cmd {
	m.itemID = 0
	m.suggest.Dismiss()
	return m.reset()
}

// Close releases the autocomplete box.
func (m *WishlistFormModel) Close() {
	m.suggest.Close()
}

// Update handles all messages.
func (m *WishlistFormModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case suggestionsMsg:
		cmd, _ := m.suggest.Handle(msg)
		return cmd
	case spinner.TickMsg:
		return m.suggest.UpdateSpinner(msg)
	case formErrorMsg:
		m.setError(msg.err)
		return nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m.updateFocused(msg)
}

func (m *WishlistFormModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.focused == wfName {
		if picked, ok := m.suggest.Key(msg.String()); ok {
			if picked == nil {
				return nil
			}
			m.fields[wfName].input.SetValue(picked.Name)
			if picked.City != "" {
				m.fields[wfCity].input.SetValue(picked.City)
				return m.focus(wfPriority)
			}
			return m.focus(wfCity)
		}
	}

	switch {
	case key.Matches(msg, formKeys.Cancel):
		return func() tea.Msg { return model.FormCancelledMsg{} }
	case key.Matches(msg, formKeys.Save):
		return m.save()
	case key.Matches(msg, formKeys.Submit):
		if m.focused == len(m.fields)-1 {
			return m.save()
		}
		m.suggest.Dismiss()
		return m.next()
	case key.Matches(msg, formKeys.NextField):
		m.suggest.Dismiss()
		return m.next()
	case key.Matches(msg, formKeys.PrevField):
		m.suggest.Dismiss()
		return m.prev()
	}

	cmd := m.updateFocused(msg)
	if m.focused == wfName {
		m.suggest.Input(strings.TrimSpace(m.value(wfName)))
	}
	return cmd
}

func (m *WishlistFormModel) input() model.WishlistInput {
	return model.WishlistInput{
		Name:     m.value(wfName),
		City:     m.value(wfCity),
		Notes:    m.value(wfNotes),
		Priority: model.Priority(strings.ToLower(strings.TrimSpace(m.value(wfPriority)))),
	}
}

func (m *WishlistFormModel) save() tea.Cmd {
	if m.saving {
		return nil
	}
	in := m.input()
	m.clearErrors()
	m.saving = true
	if m.Editing() {
		return updateWishlistItemCmd(m.store, m.itemID, in)
	}
	return createWishlistItemCmd(m.store, in)
}

// View renders the form.
func (m *WishlistFormModel) View(width, height int) string {
	title := "New wishlist entry"
	if m.Editing() {
		title = "Edit wishlist entry"
	}
	below := map[int]string{}
	if m.focused == wfName {
		below[wfName] = m.suggest.View(width - 12)
	}
	return m.view(width, height, title, below)
}

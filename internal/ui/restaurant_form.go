package ui

import (
	"fmt"
	"strconv"
	"strings"

	"tastebook/internal/autocomplete"
	"tastebook/internal/data"
	"tastebook/internal/model"
	"tastebook/internal/util"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	rfName = iota
	rfCity
	rfRating
	rfFavorite
	rfDescription
)

// RestaurantFormModel adds or edits a restaurant. The name field suggests
// names from the restaurant pool.
type RestaurantFormModel struct {
	form
	store        *data.Store
	restaurantID int64
	suggest      *suggestField
}

// NewRestaurantFormModel creates an empty form. box may be nil when
// autocomplete is disabled.
func NewRestaurantFormModel(store *data.Store, box *autocomplete.Box) *RestaurantFormModel {
	m := &RestaurantFormModel{
		form: form{fields: []formField{
			newFormField("name", "Name *", "Search or type a restaurant...", model.NameMaxLen),
			newFormField("city", "City *", "Paris", model.CityMaxLen),
			newFormField("rating", "Rating (1-5) *", "4", 1),
			newFormField("is_favorite", "Favorite? (y/n)", "n", 3),
			newFormField("description", "Notes", "What did you have?", model.DescriptionMaxLen),
		}},
		store:   store,
		suggest: newSuggestField(box),
	}
	m.focus(rfName)
	return m
}

// LoadRestaurant fills the form for editing r.
func (m *RestaurantFormModel) LoadRestaurant(r model.Restaurant) {
	m.restaurantID = r.ID
	m.fields[rfName].input.SetValue(r.Name)
	m.fields[rfCity].input.SetValue(r.City)
	m.fields[rfRating].input.SetValue(strconv.Itoa(r.Rating))
	if r.IsFavorite {
		m.fields[rfFavorite].input.SetValue("y")
	} else {
		m.fields[rfFavorite].input.SetValue("n")
	}
	m.fields[rfDescription].input.SetValue(r.Description)
}

// Editing reports whether the form edits an existing restaurant.
func (m *RestaurantFormModel) Editing() bool { return m.restaurantID > 0 }

func (m *RestaurantFormModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.suggest.Init())
}

// Reset clears the form after a successful create.
func (m *RestaurantFormModel) Reset() tea.Cmd {
	m.restaurantID = 0
	m.suggest.Dismiss()
	return m.reset()
}

// Close releases the autocomplete box.
func (m *RestaurantFormModel) Close() {
	m.suggest.Close()
}

// Update handles all messages.
func (m *RestaurantFormModel) Update(msg tea.Msg) tea.Cmd {
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

func (m *RestaurantFormModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.focused == rfName {
		if picked, ok := m.suggest.Key(msg.String()); ok {
			if picked == nil {
				return nil
			}
			m.fields[rfName].input.SetValue(picked.Name)
			if picked.City != "" {
				m.fields[rfCity].input.SetValue(picked.City)
				return m.focus(rfRating)
			}
			return m.focus(rfCity)
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
	if m.focused == rfName {
		m.suggest.Input(strings.TrimSpace(m.value(rfName)))
	}
	return cmd
}

func (m *RestaurantFormModel) input() (model.RestaurantInput, error) {
	errs := model.ValidationErrors{}
	rating, err := util.ParseRating(m.value(rfRating), model.RatingMin, model.RatingMax, 0)
	if err != nil {
		errs["rating"] = fmt.Sprintf("must be a whole number between %d and %d", model.RatingMin, model.RatingMax)
	}
	fav, err := util.ParseYesNo(m.value(rfFavorite))
	if err != nil {
		errs["is_favorite"] = "must be y or n"
	}
	if len(errs) > 0 {
		return model.RestaurantInput{}, errs
	}
	return model.RestaurantInput{
		Name:        m.value(rfName),
		City:        m.value(rfCity),
		Description: m.value(rfDescription),
		Rating:      rating,
		IsFavorite:  fav,
	}, nil
}

func (m *RestaurantFormModel) save() tea.Cmd {
	if m.saving {
		return nil
	}
	in, err := m.input()
	if err != nil {
		m.setError(err)
		return nil
	}
	m.clearErrors()
	m.saving = true
	if m.Editing() {
		return updateRestaurantCmd(m.store, m.restaurantID, in)
	}
	return createRestaurantCmd(m.store, in)
}

// View renders the form.
func (m *RestaurantFormModel) View(width, height int) string {
	title := "New restaurant"
	if m.Editing() {
		title = "Edit restaurant"
	}
	below := map[int]string{}
	if m.focused == rfName {
		below[rfName] = m.suggest.View(width - 12)
	}
	return m.view(width, height, title, below)
}

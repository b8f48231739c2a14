package ui

import (
	"errors"
	"strings"

	"tastebook/internal/api"
	"tastebook/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// formErrorMsg is sent when a form submission failed. The form keeps its
// input for a retry.
type formErrorMsg struct {
	err error
}

type formField struct {
	// key matches the field names used in model.ValidationErrors.
	key   string
	label string
	input textinput.Model
}

func newFormField(key, label, placeholder string, limit int) formField {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	return formField{key: key, label: label, input: in}
}

// form is the input state shared by the restaurant and wishlist forms.
type form struct {
	fields  []formField
	focused int
	errors  model.ValidationErrors
	error   string
	saving  bool
}

func (f *form) value(i int) string {
	return f.fields[i].input.Value()
}

func (f *form) focus(i int) tea.Cmd {
	f.fields[f.focused].input.Blur()
	f.focused = (i + len(f.fields)) % len(f.fields)
	return f.fields[f.focused].input.Focus()
}

func (f *form) next() tea.Cmd { return f.focus(f.focused + 1) }
func (f *form) prev() tea.Cmd { return f.focus(f.focused - 1) }

func (f *form) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.fields[f.focused].input, cmd = f.fields[f.focused].input.Update(msg)
	return cmd
}

// setError shows err. Validation failures are shown next to their fields;
// anything else carries the backend's message.
func (f *form) setError(err error) {
	f.saving = false
	var verrs model.ValidationErrors
	if errors.As(err, &verrs) {
		f.errors = verrs
		f.error = "Please fix the highlighted fields"
		return
	}
	f.errors = nil
	f.error = api.Message(err)
}

func (f *form) clearErrors() {
	f.errors = nil
	f.error = ""
}

func (f *form) reset() tea.Cmd {
	for i := range f.fields {
		f.fields[i].input.SetValue("")
	}
	f.clearErrors()
	f.saving = false
	return f.focus(0)
}

// view renders every field. below holds extra content shown under a field,
// such as the suggestion dropdown.
func (f *form) view(width, height int, title string, below map[int]string) string {
	parts := []string{LabelStyle.Render(title)}
	for i, fld := range f.fields {
		rendered := renderFormField(fld.label, fld.input, i == f.focused)
		if extra := below[i]; extra != "" {
			rendered = lipgloss.JoinVertical(lipgloss.Left, rendered, extra)
		}
		if msg := f.errors.Field(fld.key); msg != "" {
			rendered = lipgloss.JoinVertical(lipgloss.Left, rendered, ErrorStyle.Render(fld.key+" "+msg))
		}
		parts = append(parts, rendered)
	}
	if f.saving {
		parts = append(parts, HelpDescStyle.Render("Saving..."))
	}
	if f.error != "" {
		parts = append(parts, ErrorStyle.Render(f.error))
	}

	return PanelStyle.
		Width(width - 4).
		Height(max(1, height-4)).
		Render(strings.Join(parts, "\n"))
}

func renderFormField(label string, input textinput.Model, focused bool) string {
	style := BorderStyle.Padding(0, 1)
	if focused {
		style = ActiveBorderStyle.Padding(0, 1)
	}

	field := lipgloss.JoinVertical(
		lipgloss.Left,
		LabelStyle.Render(label),
		input.View(),
	)

	return style.Render(field)
}

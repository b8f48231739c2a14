package ui

import (
	"strings"

	"tastebook/internal/autocomplete"
	"tastebook/internal/model"
	"tastebook/internal/util"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// suggestionsMsg carries a state published by an autocomplete box.
type suggestionsMsg struct {
	box   *autocomplete.Box
	state autocomplete.State
}

// waitForSuggestions blocks on the next published state of box. The command
// yields nil once the box is closed, which ends the chain.
func waitForSuggestions(box *autocomplete.Box) tea.Cmd {
	if box == nil {
		return nil
	}
	return func() tea.Msg {
		state, ok := <-box.Updates()
		if !ok {
			return nil
		}
		return suggestionsMsg{box: box, state: state}
	}
}

// suggestField renders the dropdown of one autocomplete box. A nil box turns
// the field into a plain input.
type suggestField struct {
	box      *autocomplete.Box
	term     string
	state    autocomplete.State
	cursor   int
	open     bool
	spinning bool
	spinner  spinner.Model
}

func newSuggestField(box *autocomplete.Box) *suggestField {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &suggestField{box: box, spinner: sp}
}

// Init starts listening to the box.
func (f *suggestField) Init() tea.Cmd {
	return waitForSuggestions(f.box)
}

// Input forwards the current text to the box when it changed.
func (f *suggestField) Input(term string) {
	if f.box == nil || term == f.term {
		return
	}
	f.term = term
	f.box.Input(term)
}

// Handle applies a published state. It reports false for messages from other
// boxes.
func (f *suggestField) Handle(msg suggestionsMsg) (tea.Cmd, bool) {
	if f.box == nil || msg.box != f.box {
		return nil, false
	}
	f.state = msg.state
	f.cursor = 0
	f.open = len(f.state.Suggestions) > 0

	cmds := []tea.Cmd{waitForSuggestions(f.box)}
	if f.state.Loading && !f.spinning {
		f.spinning = true
		cmds = append(cmds, f.spinner.Tick)
	}
	return tea.Batch(cmds...), true
}

// UpdateSpinner advances the spinner while a lookup is pending.
func (f *suggestField) UpdateSpinner(msg spinner.TickMsg) tea.Cmd {
	if !f.state.Loading {
		f.spinning = false
		return nil
	}
	var cmd tea.Cmd
	f.spinner, cmd = f.spinner.Update(msg)
	return cmd
}

// Open reports whether the dropdown is showing.
func (f *suggestField) Open() bool { return f.open }

// Dismiss hides the dropdown without touching the box.
func (f *suggestField) Dismiss() { f.open = false }

// Key handles dropdown navigation. It returns the picked suggestion, if any,
// and whether the key was consumed.
func (f *suggestField) Key(k string) (*model.Suggestion, bool) {
	if !f.open {
		return nil, false
	}
	switch k {
	case "esc":
		f.open = false
		return nil, true
	case "down", "ctrl+n":
		if f.cursor < len(f.state.Suggestions)-1 {
			f.cursor++
		}
		return nil, true
	case "up", "ctrl+p":
		if f.cursor > 0 {
			f.cursor--
		}
		return nil, true
	case "enter", "tab":
		if f.cursor >= len(f.state.Suggestions) {
			return nil, false
		}
		picked := f.state.Suggestions[f.cursor]
		f.box.Commit(picked)
		f.term = picked.Name
		f.state.Suggestions = nil
		f.open = false
		return &picked, true
	}
	return nil, false
}

// Close stops the box; pending lookups are abandoned.
func (f *suggestField) Close() {
	if f.box != nil {
		f.box.Close()
	}
}

// View renders the dropdown or the searching line below the input.
func (f *suggestField) View(width int) string {
	if f.box == nil {
		return ""
	}
	if f.state.Loading {
		return HelpDescStyle.Render(f.spinner.View() + " Searching...")
	}
	if !f.open {
		return ""
	}

	lineWidth := max(10, width-4)
	items := make([]string, 0, len(f.state.Suggestions))
	for i, s := range f.state.Suggestions {
		style := NormalRowStyle
		if i == f.cursor {
			style = SelectedRowStyle
		}
		left := util.TruncateString(s.Name, 40)
		right := HelpDescStyle.Render(s.City)
		padding := max(0, lineWidth-lipgloss.Width(left)-lipgloss.Width(right))
		items = append(items, style.Width(lineWidth).Render(left+strings.Repeat(" ", padding)+right))
	}
	return BorderStyle.Padding(0, 1).Width(width).Render(strings.Join(items, "\n"))
}

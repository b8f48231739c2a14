package ui

import (
	"tastebook/internal/model"
	"tastebook/internal/session"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	afUsername = iota
	afPassword
)

// AuthFormModel is the login and register screen.
type AuthFormModel struct {
	form
	sessions *session.Store
	register bool
	notice   string
}

// NewAuthFormModel creates the login form, or the register form when
// register is set.
func NewAuthFormModel(sessions *session.Store, register bool) *AuthFormModel {
	password := newFormField("password", "Password", "", 72)
	password.input.EchoMode = textinput.EchoPassword
	password.input.EchoCharacter = '•'

	m := &AuthFormModel{
		form: form{fields: []formField{
			newFormField("username", "Username", "alice", model.UsernameMaxLen),
			password,
		}},
		sessions: sessions,
		register: register,
	}
	m.focus(afUsername)
	return m
}

// Path is the route of the screen, used by the session redirector.
func (m *AuthFormModel) Path() string {
	if m.register {
		return session.RegisterPath
	}
	return session.LoginPath
}

// SetNotice shows an informational line above the form.
func (m *AuthFormModel) SetNotice(s string) { m.notice = s }

// SetUsername prefills the username, as after a registration.
func (m *AuthFormModel) SetUsername(name string) tea.Cmd {
	m.fields[afUsername].input.SetValue(name)
	return m.focus(afPassword)
}

func (m *AuthFormModel) Init() tea.Cmd { return textinput.Blink }

// Update handles all messages.
func (m *AuthFormModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case formErrorMsg:
		m.setError(msg.err)
		m.fields[afPassword].input.SetValue("")
		return m.focus(afPassword)
	case tea.KeyMsg:
		switch {
		case msg.String() == "ctrl+r":
			m.register = !m.register
			m.notice = ""
			m.clearErrors()
			return nil
		case key.Matches(msg, formKeys.NextField), msg.String() == "down":
			return m.next()
		case key.Matches(msg, formKeys.PrevField), msg.String() == "up":
			return m.prev()
		case key.Matches(msg, formKeys.Submit):
			if m.focused == afUsername {
				return m.next()
			}
			return m.submit()
		case key.Matches(msg, formKeys.Save):
			return m.submit()
		}
	}
	return m.updateFocused(msg)
}

func (m *AuthFormModel) submit() tea.Cmd {
	if m.saving {
		return nil
	}
	creds := model.Credentials{Username: m.value(afUsername), Password: m.value(afPassword)}
	m.clearErrors()
	m.notice = ""
	m.saving = true
	if m.register {
		return registerCmd(m.sessions, creds)
	}
	return loginCmd(m.sessions, creds)
}

// View renders the form centered on the screen.
func (m *AuthFormModel) View(width, height int) string {
	title, other := "Log in", "ctrl+r create an account"
	if m.register {
		title, other = "Create account", "ctrl+r back to log in"
	}

	parts := []string{LabelStyle.Render(title)}
	if m.notice != "" {
		parts = append(parts, SuccessStyle.Render(m.notice))
	}
	for i, fld := range m.fields {
		rendered := renderFormField(fld.label, fld.input, i == m.focused)
		if msg := m.errors.Field(fld.key); msg != "" {
			rendered = lipgloss.JoinVertical(lipgloss.Left, rendered, ErrorStyle.Render(fld.key+" "+msg))
		}
		parts = append(parts, rendered)
	}
	if m.saving {
		parts = append(parts, HelpDescStyle.Render("Contacting server..."))
	}
	if m.error != "" {
		parts = append(parts, ErrorStyle.Render(m.error))
	}
	parts = append(parts, HelpDescStyle.Render("enter submit  "+other))

	box := PanelStyle.Width(min(56, max(20, width-4))).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	return lipgloss.Place(width, max(1, height), lipgloss.Center, lipgloss.Center, box)
}

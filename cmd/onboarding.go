package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// OnboardingSettings is what the first-run screen stores in onboarding.json.
type OnboardingSettings struct {
	Completed           bool   `json:"completed"`
	ServerURL           string `json:"server_url"`
	AutocompleteEnabled bool   `json:"autocomplete_enabled"`
}

func onboardingPath(configDir string) string {
	return filepath.Join(configDir, "onboarding.json")
}

func loadOnboardingSettings(configDir string) (OnboardingSettings, error) {
	data, err := os.ReadFile(onboardingPath(configDir))
	if err != nil {
		if os.IsNotExist(err) {
			return OnboardingSettings{}, nil
		}
		return OnboardingSettings{}, err
	}

	var settings OnboardingSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return OnboardingSettings{}, err
	}
	return settings, nil
}

// saveOnboardingSettings replaces onboarding.json atomically so an
// interrupted write never leaves a half file that would rerun setup.
func saveOnboardingSettings(configDir string, settings OnboardingSettings) error {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	tmp := onboardingPath(configDir) + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write onboarding settings: %w", err)
	}
	if err := os.Rename(tmp, onboardingPath(configDir)); err != nil {
		return errors.Join(fmt.Errorf("save onboarding settings: %w", err), os.Remove(tmp))
	}
	return nil
}

func shouldRunOnboarding(settings OnboardingSettings) bool {
	if settings.Completed {
		return false
	}
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

type onboardingStep int

const (
	stepServer onboardingStep = iota
	stepAutocomplete
	stepDone
)

type onboardingModel struct {
	step        onboardingStep
	serverInput textinput.Model
	enable      bool
	settings    OnboardingSettings
	status      string
	err         string
	width       int
	height      int
}

// The first-run screen cannot import the ui package, so it keeps a small
// palette of its own in the same colors.
var (
	obMuted  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C7B72"))
	obText   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EDE2D9"))
	obAccent = lipgloss.NewStyle().Foreground(lipgloss.Color("#D98E5F")).Bold(true)
	obWarn   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E67E80"))

	obCard = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#8C7B72")).
		Padding(1, 3)
)

func newOnboardingModel(serverURL string) onboardingModel {
	if serverURL == "" {
		serverURL = DefaultServerURL
	}
	in := textinput.New()
	in.Placeholder = DefaultServerURL
	in.SetValue(serverURL)
	in.CharLimit = 200
	in.Prompt = "url> "
	in.TextStyle = obText
	in.PlaceholderStyle = obMuted
	in.Focus()

	return onboardingModel{
		step:        stepServer,
		serverInput: in,
		enable:      true,
		settings: OnboardingSettings{
			Completed:           true,
			ServerURL:           serverURL,
			AutocompleteEnabled: true,
		},
	}
}

func (m onboardingModel) Init() tea.Cmd { return textinput.Blink }

func (m onboardingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.cancel()
		}
		switch m.step {
		case stepServer:
			switch msg.String() {
			case "enter":
				url := strings.TrimRight(strings.TrimSpace(m.serverInput.Value()), "/")
				if url == "" {
					url = DefaultServerURL
				}
				if err := validateServerURL(url); err != nil {
					m.err = "Enter a URL like " + DefaultServerURL
					return m, nil
				}
				m.err = ""
				m.settings.ServerURL = url
				m.serverInput.Blur()
				m.step = stepAutocomplete
				return m, nil
			case "esc":
				return m.cancel()
			}
			var cmd tea.Cmd
			m.serverInput, cmd = m.serverInput.Update(msg)
			return m, cmd
		case stepAutocomplete:
			switch msg.String() {
			case "y", "Y":
				m.enable = true
				return m.finish()
			case "n", "N":
				m.enable = false
				return m.finish()
			case "up", "k", "left", "h":
				m.enable = true
				return m, nil
			case "down", "j", "right", "l":
				m.enable = false
				return m, nil
			case "enter":
				return m.finish()
			case "esc":
				m.step = stepServer
				m.serverInput.Focus()
				return m, nil
			case "q":
				return m.cancel()
			}
			return m, nil
		}
	}
	return m, nil
}

func (m onboardingModel) finish() (tea.Model, tea.Cmd) {
	m.settings.AutocompleteEnabled = m.enable
	if m.enable {
		m.status = "Setup complete. Name suggestions enabled."
	} else {
		m.status = "Setup complete. Name suggestions disabled."
	}
	m.step = stepDone
	return m, tea.Quit
}

// cancel keeps the defaults and marks setup as done so it is not shown again.
func (m onboardingModel) cancel() (tea.Model, tea.Cmd) {
	m.status = "Setup canceled. Using " + m.settings.ServerURL + "."
	m.step = stepDone
	return m, tea.Quit
}

func (m onboardingModel) View() string {
	var title, body, hint string
	switch m.step {
	case stepServer:
		title = "Where is your tastebook server?"
		body = obMuted.Render("Run tastebookd locally or point at a shared instance.") + "\n\n" + m.serverInput.View()
		if m.err != "" {
			body += "\n\n" + obWarn.Render(m.err)
		}
		hint = "enter next · esc use default · ctrl+c cancel"
	case stepAutocomplete:
		title = "Look up restaurant names as you type?"
		body = strings.Join([]string{
			option("Suggest names while typing", m.enable),
			option("Do not suggest names", !m.enable),
			"",
			obMuted.Render("Stored in " + onboardingPath("~/.tastebook")),
		}, "\n")
		hint = "j/k choose · y/n or enter confirm · esc back · q cancel"
	default:
		title = "Setup complete"
		body = obMuted.Render(m.status)
	}

	card := obCard.Render(obAccent.Render(title) + "\n\n" + body)
	if hint != "" {
		card += "\n" + obMuted.Render(hint)
	}
	if m.width <= 0 || m.height <= 0 {
		return card
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}

func option(label string, selected bool) string {
	if selected {
		return obAccent.Render("→ " + label)
	}
	return "  " + obText.Render(label)
}

func runOnboarding(configDir string, serverURL string) (OnboardingSettings, error) {
	prog := tea.NewProgram(newOnboardingModel(serverURL), tea.WithAltScreen())
	finalModel, err := prog.Run()
	if err != nil {
		return OnboardingSettings{}, fmt.Errorf("onboarding tui failed: %w", err)
	}
	m, ok := finalModel.(onboardingModel)
	if !ok {
		return OnboardingSettings{}, fmt.Errorf("unexpected onboarding model type")
	}
	if err := saveOnboardingSettings(configDir, m.settings); err != nil {
		return OnboardingSettings{}, err
	}
	return m.settings, nil
}

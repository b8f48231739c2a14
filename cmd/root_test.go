package cmd

import (
	"io"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestParseArgs(t *testing.T) {
	t.Setenv("TASTEBOOK_SERVER", "")
	dir := t.TempDir()

	cfg, err := parseArgs([]string{"-server", "http://api.local:9000", "-config-dir", dir}, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if cfg.ServerURL != "http://api.local:9000" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.LogPath != filepath.Join(dir, "tastebook.log") {
		t.Errorf("LogPath = %q", cfg.LogPath)
	}
	if !cfg.Autocomplete {
		t.Error("autocomplete should default to on")
	}
}

func TestParseArgs_EnvServer(t *testing.T) {
	t.Setenv("TASTEBOOK_SERVER", "https://tastebook.example")

	cfg, err := parseArgs([]string{"-config-dir", t.TempDir()}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ServerURL != "https://tastebook.example" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}

	cfg, _ = parseArgs([]string{"-config-dir", t.TempDir(), "-server", "http://flag:1"}, io.Discard)
	if cfg.ServerURL != "http://flag:1" {
		t.Errorf("flag should win over env, got %q", cfg.ServerURL)
	}
}

func TestParseArgs_UnknownFlag(t *testing.T) {
	if _, err := parseArgs([]string{"-db", "x"}, io.Discard); err == nil {
		t.Error("expected error for unknown flag")
	}
}

func TestApplySettings(t *testing.T) {
	tests := []struct {
		name        string
		flagURL     string
		settings    OnboardingSettings
		wantURL     string
		wantSuggest bool
	}{
		{"defaults", "", OnboardingSettings{}, DefaultServerURL, true},
		{"stored url", "", OnboardingSettings{Completed: true, ServerURL: "http://stored:1", AutocompleteEnabled: true}, "http://stored:1", true},
		{"flag wins", "http://flag:2", OnboardingSettings{Completed: true, ServerURL: "http://stored:1"}, "http://flag:2", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{ServerURL: tt.flagURL, Autocomplete: true}
			applySettings(cfg, tt.settings)
			if cfg.ServerURL != tt.wantURL || cfg.Autocomplete != tt.wantSuggest {
				t.Errorf("got %q/%v, want %q/%v", cfg.ServerURL, cfg.Autocomplete, tt.wantURL, tt.wantSuggest)
			}
		})
	}
}

func TestValidateServerURL(t *testing.T) {
	tests := map[string]bool{
		"http://localhost:8080": true,
		"https://tastebook.app": true,
		"localhost:8080":        false,
		"ftp://files.example":   false,
		"http://":               false,
	}
	for raw, ok := range tests {
		if err := validateServerURL(raw); (err == nil) != ok {
			t.Errorf("validateServerURL(%q) = %v, want ok=%v", raw, err, ok)
		}
	}
}

func TestOnboardingSettingsRoundTrip(t *testing.T) {
	dir := t.TempDir()

	got, err := loadOnboardingSettings(dir)
	if err != nil || got.Completed {
		t.Fatalf("missing file = %+v, %v", got, err)
	}

	want := OnboardingSettings{Completed: true, ServerURL: "http://h:1", AutocompleteEnabled: false}
	if err := saveOnboardingSettings(dir, want); err != nil {
		t.Fatal(err)
	}
	got, err = loadOnboardingSettings(dir)
	if err != nil || got != want {
		t.Errorf("loaded %+v, %v", got, err)
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestOnboardingModel_Flow(t *testing.T) {
	var m tea.Model = newOnboardingModel("http://example:8080/")

	m, _ = m.Update(key("enter"))
	om := m.(onboardingModel)
	if om.step != stepAutocomplete {
		t.Fatalf("step = %v", om.step)
	}
	if om.settings.ServerURL != "http://example:8080" {
		t.Errorf("ServerURL = %q", om.settings.ServerURL)
	}

	m, cmd := m.Update(key("n"))
	om = m.(onboardingModel)
	if om.step != stepDone || om.settings.AutocompleteEnabled {
		t.Errorf("final = %+v", om.settings)
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestOnboardingModel_RejectsBadURL(t *testing.T) {
	m := newOnboardingModel("")
	m.serverInput.SetValue("not a url")

	next, _ := m.Update(key("enter"))
	om := next.(onboardingModel)
	if om.step != stepServer || om.err == "" {
		t.Errorf("step = %v err = %q", om.step, om.err)
	}
}

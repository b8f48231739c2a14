package ui

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const prefsFile = "ui_prefs.json"

// TablePrefs stores per-table UI preferences.
type TablePrefs struct {
	SortKey       string   `json:"sort_key"`
	SortDesc      bool     `json:"sort_desc"`
	HiddenColumns []string `json:"hidden_columns"`
	ActiveColumn  string   `json:"active_column"`
}

// UIPreferences stores persisted list preferences. They live next to the
// onboarding settings in the config directory.
type UIPreferences struct {
	Restaurants TablePrefs `json:"restaurants"`
	Wishlist    TablePrefs `json:"wishlist"`
}

// loadUIPreferences returns zero preferences when dir is empty or the file is
// missing or unreadable.
func loadUIPreferences(dir string) UIPreferences {
	if dir == "" {
		return UIPreferences{}
	}
	data, err := os.ReadFile(filepath.Join(dir, prefsFile))
	if err != nil {
		return UIPreferences{}
	}
	var prefs UIPreferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return UIPreferences{}
	}
	return prefs
}

// saveUIPreferences is a no-op when dir is empty.
func saveUIPreferences(dir string, prefs UIPreferences) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create prefs dir: %w", err)
	}

	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal prefs: %w", err)
	}

	path := filepath.Join(dir, prefsFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write prefs: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Join(fmt.Errorf("failed to replace prefs: %w", err), os.Remove(tmp))
	}
	return nil
}

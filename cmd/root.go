// Package cmd parses the client's flags, environment and first-run settings.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultServerURL is used when neither a flag, the environment nor the
// onboarding settings name a backend.
const DefaultServerURL = "http://localhost:8080"

// Config holds CLI configuration.
type Config struct {
	ServerURL        string
	ConfigDir        string
	LogPath          string
	LogLevel         string
	Autocomplete     bool
	DebugMetricsAddr string
	ShowVersion      bool
	Version          string
}

// ParseFlags parses command-line flags and returns configuration. It runs
// the onboarding screen on the first interactive start.
func ParseFlags(version string, args []string) (*Config, error) {
	// .env files first, so env-based defaults work with flag parsing.
	loadDotEnv(".env", ".env.local")

	config, err := parseArgs(args, io.Discard)
	if err != nil {
		return nil, err
	}
	config.Version = version
	if config.ShowVersion {
		return config, nil
	}

	if err := os.MkdirAll(config.ConfigDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	settings, err := loadOnboardingSettings(config.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load onboarding settings: %w", err)
	}

	if shouldRunOnboarding(settings) {
		settings, err = runOnboarding(config.ConfigDir, config.ServerURL)
		if err != nil {
			return nil, fmt.Errorf("failed to run onboarding: %w", err)
		}
	}

	applySettings(config, settings)

	if err := validateServerURL(config.ServerURL); err != nil {
		return nil, err
	}
	return config, nil
}

// parseArgs reads flags and environment only; it touches no files.
func parseArgs(args []string, output io.Writer) (*Config, error) {
	config := &Config{}

	fs := flag.NewFlagSet("tastebook", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&config.ServerURL, "server", "", "Backend URL (or set TASTEBOOK_SERVER; default "+DefaultServerURL+")")
	fs.StringVar(&config.ConfigDir, "config-dir", "", "Directory for settings and logs (default: ~/.tastebook)")
	fs.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.StringVar(&config.DebugMetricsAddr, "debug-metrics", "", "Serve cache metrics on this address, e.g. localhost:9091")
	fs.BoolVar(&config.ShowVersion, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if config.ServerURL == "" {
		config.ServerURL = os.Getenv("TASTEBOOK_SERVER")
	}

	if config.ConfigDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		config.ConfigDir = filepath.Join(home, ".tastebook")
	}
	config.LogPath = filepath.Join(config.ConfigDir, "tastebook.log")
	config.Autocomplete = true

	return config, nil
}

// applySettings fills what flags and environment left open. An explicit
// server URL always wins over the stored one.
func applySettings(config *Config, settings OnboardingSettings) {
	if config.ServerURL == "" {
		config.ServerURL = settings.ServerURL
	}
	if config.ServerURL == "" {
		config.ServerURL = DefaultServerURL
	}
	if settings.Completed {
		config.Autocomplete = settings.AutocompleteEnabled
	}
}

func validateServerURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid server url %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid server url %q: expected http(s)://host[:port]", raw)
	}
	return nil
}

// loadDotEnv loads each file that exists without overriding variables that
// are already set.
func loadDotEnv(paths ...string) {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "warning: could not read %s: %v\n", p, strings.TrimSpace(err.Error()))
		}
	}
}

// Command tastebook is the terminal client for a tastebookd backend.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"tastebook/cmd"
	"tastebook/internal/api"
	"tastebook/internal/cache"
	"tastebook/internal/data"
	"tastebook/internal/logger"
	"tastebook/internal/metrics"
	"tastebook/internal/session"
	"tastebook/internal/ui"
)

// version is set at build time via -ldflags
var version = "dev"

// Outbound request budget. Typing in a suggestion field is debounced by the
// autocomplete box; this caps everything else.
const (
	requestsPerSecond = 10
	requestBurst      = 20
)

func main() {
	config, err := cmd.ParseFlags(version, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if config.ShowVersion {
		fmt.Println("tastebook", config.Version)
		return
	}

	if err := run(config); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(config *cmd.Config) error {
	// The terminal belongs to Bubble Tea, so logs go to a file.
	logFile, err := os.OpenFile(config.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	log := logger.SetupDefault(logFile, logger.ParseLevel(config.LogLevel))
	log.Info("starting", slog.String("version", config.Version), slog.String("server", config.ServerURL))

	client, err := api.New(config.ServerURL,
		api.WithLogger(log),
		api.WithRateLimit(rate.Limit(requestsPerSecond), requestBurst),
	)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	if config.DebugMetricsAddr != "" {
		serveDebugMetrics(config.DebugMetricsAddr, reg, log)
	}

	store := data.NewStore(client, cache.New(cache.DefaultSize, cache.WithObserver(collector)), log)
	sessions := session.New(client, session.WithLogger(log))
	sessions.OnLogout(store.Clear)

	nav := ui.NewNavigator()
	client.SetUnauthorizedHandler(session.NewRedirector(nav).HandleUnauthorized)

	p := tea.NewProgram(ui.New(ui.Options{
		Sessions:     sessions,
		Store:        store,
		Navigator:    nav,
		ConfigDir:    config.ConfigDir,
		Autocomplete: config.Autocomplete,
		Logger:       log,
	}), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	log.Info("exiting")
	return nil
}

// serveDebugMetrics exposes the client's cache counters for as long as the
// process runs.
func serveDebugMetrics(addr string, reg *prometheus.Registry, log *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("debug metrics listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("debug metrics stopped", slog.String("error", err.Error()))
		}
	}()
}

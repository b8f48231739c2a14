// Command tastebookd is the reference backend for the tastebook client.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"tastebook/internal/auth"
	"tastebook/internal/config"
	"tastebook/internal/db"
	"tastebook/internal/logger"
	"tastebook/internal/metrics"
	"tastebook/internal/search"
	"tastebook/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", slog.String("error", err.Error()))
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log := logger.SetupDefault(os.Stdout, logger.ParseLevel(cfg.LogLevel))

	if err := run(cfg, log); err != nil {
		log.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	database, err := db.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer database.Close()

	authSvc := auth.NewService(database, auth.Config{
		BcryptCost:       cfg.BcryptCost,
		MaxLoginAttempts: cfg.LoginMaxAttempt,
		LockDuration:     cfg.LoginLock,
		SessionMaxAge:    cfg.SessionMaxAge,
	}, log)

	var upstream search.Upstream
	if cfg.YelpAPIKey != "" {
		upstream = search.NewYelpClient(cfg.YelpAPIKey, search.WithLocation(cfg.YelpLocation))
		log.Info("upstream autocomplete enabled", slog.String("provider", "yelp"))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	handler := server.NewRouter(server.Config{
		DB:            database,
		Auth:          authSvc,
		Suggester:     search.NewSuggester(database, upstream, log),
		Logger:        log,
		Metrics:       metrics.NewCollector(reg),
		Gatherer:      reg,
		CookieSecure:  cfg.CookieSecure,
		AuthRateLimit: cfg.RateLimitAuth,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go authSvc.RunCleanup(ctx, cfg.SessionSweep)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", slog.String("addr", srv.Addr), slog.String("database", cfg.DatabasePath))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

// Package server is the HTTP backend serving the /api/v1 contract.
package server

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"tastebook/internal/auth"
	"tastebook/internal/metrics"
	"tastebook/internal/search"
)

// Config wires the router to its collaborators. DB and Auth are required.
type Config struct {
	DB        *sql.DB
	Auth      *auth.Service
	Suggester *search.Suggester
	Logger    *slog.Logger

	// Metrics and Gatherer are optional; /metrics is mounted when Gatherer
	// is set.
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer

	CookieSecure bool
	// AuthRateLimit is the number of /auth requests allowed per minute per IP.
	// Zero disables the limit.
	AuthRateLimit int
}

type handler struct {
	db           *sql.DB
	auth         *auth.Service
	suggester    *search.Suggester
	metrics      *metrics.Collector
	logger       *slog.Logger
	cookieSecure bool
}

// NewRouter builds the HTTP handler for the backend.
func NewRouter(cfg Config) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Suggester == nil {
		cfg.Suggester = search.NewSuggester(cfg.DB, nil, cfg.Logger)
	}

	h := &handler{
		db:           cfg.DB,
		auth:         cfg.Auth,
		suggester:    cfg.Suggester,
		metrics:      cfg.Metrics,
		logger:       cfg.Logger,
		cookieSecure: cfg.CookieSecure,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErrorStatus(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorStatus(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", h.health)
	r.Get("/ready", h.ready)
	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(cfg.Gatherer))
	}

	session := requireSession(cfg.Auth, cfg.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			if cfg.AuthRateLimit > 0 {
				r.Use(newIPRateLimiter(cfg.AuthRateLimit).middleware)
			}
			r.Post("/register", h.register)
			r.Post("/login", h.login)
			r.Post("/logout", h.logout)
			r.Get("/check", h.check)
			r.With(session).Get("/me", h.me)
		})

		r.Group(func(r chi.Router) {
			r.Use(session)

			r.Route("/restaurants", func(r chi.Router) {
				r.Get("/", h.listRestaurants)
				r.Post("/", h.createRestaurant)
				r.Get("/stats", h.restaurantStats)
				r.Get("/{id}", h.getRestaurant)
				r.Put("/{id}", h.updateRestaurant)
				r.Delete("/{id}", h.deleteRestaurant)
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", h.listWishlist)
				r.Post("/", h.createWishlistItem)
				r.Get("/count", h.wishlistCount)
				r.Get("/priority/{priority}", h.wishlistByPriority)
				r.Get("/{id}", h.getWishlistItem)
				r.Put("/{id}", h.updateWishlistItem)
				r.Delete("/{id}", h.deleteWishlistItem)
				r.Post("/{id}/promote", h.promoteWishlistItem)
			})

			r.Post("/autocomplete/{pool}", h.autocomplete)
		})
	})

	return r
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) ready(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		h.logger.Error("readiness check failed", slog.String("error", err.Error()))
		writeErrorStatus(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records HTTP traffic of the backend, authentication failures and
// resource cache events of the client. It satisfies cache.Observer.
type Collector struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	authFailures *prometheus.CounterVec
	cacheEvents  *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tastebook_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tastebook_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tastebook_auth_failures_total",
			Help: "Rejected login attempts by reason.",
		}, []string{"reason"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tastebook_cache_events_total",
			Help: "Resource cache hits, misses, coalesced waits and fetch errors by group.",
		}, []string{"group", "event"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.authFailures,
		c.cacheEvents,
	)

	return c
}

// RecordRequest records one served request.
func (c *Collector) RecordRequest(method, route string, status int, d time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordAuthFailure records a rejected login.
func (c *Collector) RecordAuthFailure(reason string) {
	c.authFailures.WithLabelValues(reason).Inc()
}

func (c *Collector) CacheHit(group string)  { c.cacheEvents.WithLabelValues(group, "hit").Inc() }
func (c *Collector) CacheMiss(group string) { c.cacheEvents.WithLabelValues(group, "miss").Inc() }
func (c *Collector) CacheCoalesced(group string) {
	c.cacheEvents.WithLabelValues(group, "coalesced").Inc()
}
func (c *Collector) CacheFetchError(group string) {
	c.cacheEvents.WithLabelValues(group, "error").Inc()
}

// Middleware records every request under its chi route pattern, so
// /restaurants/1 and /restaurants/2 share one series. Unmatched requests are
// labelled "unmatched".
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		c.RecordRequest(r.Method, route, rec.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

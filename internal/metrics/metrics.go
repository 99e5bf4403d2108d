// Package metrics provides Prometheus metrics for folio-be.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// TokensIssued counts credentials minted at login and registration.
	TokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "folio",
			Name:      "tokens_issued_total",
			Help:      "Total number of credentials issued",
		},
	)

	// AuthFailures counts rejected credentials by reason.
	AuthFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "folio",
			Name:      "auth_failures_total",
			Help:      "Total number of rejected credentials",
		},
		[]string{"reason"},
	)

	// OwnershipDecisions counts ownership checks by resource kind and result.
	OwnershipDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "folio",
			Name:      "ownership_decisions_total",
			Help:      "Total number of ownership checks",
		},
		[]string{"kind", "result"},
	)

	// LoginAttempts counts login attempts by outcome.
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "folio",
			Name:      "login_attempts_total",
			Help:      "Total number of login attempts",
		},
		[]string{"outcome"},
	)

	// RequestDuration measures HTTP handler latency.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "folio",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// WebSocketClients tracks connected activity-feed clients.
	WebSocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "folio",
			Name:      "websocket_clients",
			Help:      "Number of connected websocket clients",
		},
	)
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Instrument records RequestDuration using the matched chi route pattern.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		RequestDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}

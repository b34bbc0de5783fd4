// Package metrics exposes the Prometheus collectors of the API server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Auth resolution sources.
const (
	SourceToken   = "token"
	SourceSession = "session"
	SourceNone    = "none"
)

// Metrics contains custom Prometheus metrics for VibeBoxing.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	AuthResolutions *prometheus.CounterVec
	ComboMutations  *prometheus.CounterVec
	PasswordResets  *prometheus.CounterVec
}

// New creates a private registry with the Go and process collectors plus the
// application metrics.
func New() *Metrics {
	// Create a new registry to avoid polluting the global one
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		AuthResolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vibeboxing_auth_resolutions_total",
				Help: "Total number of request identity resolutions by source",
			},
			[]string{"source"},
		),
		ComboMutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vibeboxing_combo_mutations_total",
				Help: "Total number of combo mutations by operation and status",
			},
			[]string{"op", "status"},
		),
		PasswordResets: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vibeboxing_password_resets_total",
				Help: "Total number of password reset requests by outcome",
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(m.AuthResolutions)
	registry.MustRegister(m.ComboMutations)
	registry.MustRegister(m.PasswordResets)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordAuthResolution counts how a request identity was resolved.
func (m *Metrics) RecordAuthResolution(source string) {
	if m == nil {
		return
	}
	m.AuthResolutions.WithLabelValues(source).Inc()
}

// RecordComboMutation counts a create, update or delete.
func (m *Metrics) RecordComboMutation(op string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.ComboMutations.WithLabelValues(op, status).Inc()
}

// RecordPasswordReset counts a forgot-password request outcome.
func (m *Metrics) RecordPasswordReset(outcome string) {
	if m == nil {
		return
	}
	m.PasswordResets.WithLabelValues(outcome).Inc()
}

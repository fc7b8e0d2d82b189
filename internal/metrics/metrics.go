// Package metrics exposes Prometheus instruments for derivation and resolution.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "humanid"

// Metrics groups the service counters. A nil *Metrics discards observations.
type Metrics struct {
	Registry    *prometheus.Registry
	derivations *prometheus.CounterVec
	resolutions *prometheus.CounterVec
	collisions  prometheus.Counter
	scanned     prometheus.Counter
}

// New registers the service counters on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		derivations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "derivations_total",
			Help:      "Derivations computed, by outcome.",
		}, []string{"outcome"}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Identity resolutions, by source.",
		}, []string{"source"}),
		collisions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collisions_total",
			Help:      "Derived human IDs already bound to another wallet.",
		}),
		scanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scan_wallets_total",
			Help:      "Wallets re-derived by reverse lookup scans.",
		}),
	}
	reg.MustRegister(m.derivations, m.resolutions, m.collisions, m.scanned)
	return m
}

// Derived counts a derivation attempt.
func (m *Metrics) Derived(err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "invalid"
	}
	m.derivations.WithLabelValues(outcome).Inc()
}

// Resolved counts a resolution by source.
func (m *Metrics) Resolved(source string) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(source).Inc()
}

// Collision counts a human ID collision.
func (m *Metrics) Collision() {
	if m == nil {
		return
	}
	m.collisions.Inc()
}

// Scanned counts wallets re-derived during a reverse lookup scan.
func (m *Metrics) Scanned(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.scanned.Add(float64(n))
}

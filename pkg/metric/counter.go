// Package metric exposes the prometheus counters sidenav records.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// IncrementalCounter counts occurrences by label values.
type IncrementalCounter interface {
	Increment(val ...string)
}

// Counter is a prometheus-backed IncrementalCounter.
type Counter struct {
	Name string
	Help string

	vec *prometheus.CounterVec
}

// Increment bumps the series for the given label values.
func (c *Counter) Increment(val ...string) {
	c.vec.WithLabelValues(val...).Inc()
}

// NewCounterWithRegistry registers a counter vector on reg.
func NewCounterWithRegistry(reg prometheus.Registerer, name, help string, labels ...string) *Counter {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sidenav",
		Name:      name,
		Help:      help,
	}, labels)

	reg.MustRegister(counter)

	return &Counter{
		Name: name,
		Help: help,
		vec:  counter,
	}
}

// Set groups the counters recorded by the server and hosts.
type Set struct {
	Registry         *prometheus.Registry
	PreferenceWrites *Counter
	SocketEvents     *Counter
	NavSignals       *Counter
}

// NewSet registers every sidenav counter on a fresh registry.
func NewSet() *Set {
	reg := prometheus.NewRegistry()
	return &Set{
		Registry:         reg,
		PreferenceWrites: NewCounterWithRegistry(reg, "preference_writes_total", "Preference record writes by key.", "key"),
		SocketEvents:     NewCounterWithRegistry(reg, "socket_events_total", "Push channel events by name.", "event"),
		NavSignals:       NewCounterWithRegistry(reg, "navigation_signals_total", "Navigation signals by kind.", "kind"),
	}
}

// Handler serves the set's registry in the prometheus exposition format.
func (s *Set) Handler() http.Handler {
	return promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{})
}

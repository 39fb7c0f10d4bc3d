package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ziadkadry99/booknav/internal/sidebar"
)

// Metrics holds booknav's counters on their own registry.
type Metrics struct {
	registry *prometheus.Registry
	mounts   *prometheus.CounterVec
	restores *prometheus.CounterVec
	events   *prometheus.CounterVec
}

// New registers the counters on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		mounts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booknav_sidebar_mounts_total",
			Help: "Sidebar mounts, by whether a link matched the current page.",
		}, []string{"active"}),
		restores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booknav_scroll_restores_total",
			Help: "How the sidebar scroll position was restored.",
		}, []string{"mode"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booknav_sidebar_events_total",
			Help: "Sidebar click and toggle events handled.",
		}, []string{"type"}),
	}
	reg.MustRegister(m.mounts, m.restores, m.events)
	return m
}

// Mounted records the outcome of one sidebar mount.
func (m *Metrics) Mounted(p *sidebar.Panel) {
	m.mounts.WithLabelValues(strconv.FormatBool(p.Active() != nil)).Inc()
	m.restores.WithLabelValues(p.Restore().String()).Inc()
}

// Event counts a panel event ("click", "toggle").
func (m *Metrics) Event(kind string) {
	m.events.WithLabelValues(kind).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

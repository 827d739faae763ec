// Package metrics records rendering activity in Prometheus format. Plots are
// produced by short-lived batch runs, so the registry is written to a
// node-exporter textfile rather than served.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const defaultNamespace = "gammaplot"

// Plot kinds used as label values.
const (
	KindSkymap     = "skymap"
	KindLightCurve = "lightcurve"
	KindSED        = "sed"
)

// Manager owns the collectors and their registry.
type Manager struct {
	registry *prometheus.Registry

	plotsRendered  *prometheus.CounterVec
	renderErrors   *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	eventsBinned   prometheus.Counter
	eventsOutside  prometheus.Counter
}

// Option configures a Manager.
type Option func(*options)

type options struct {
	namespace string
	buckets   []float64
}

// WithNamespace overrides the metric namespace.
func WithNamespace(ns string) Option {
	return func(o *options) { o.namespace = ns }
}

// WithBuckets overrides the render duration histogram buckets (seconds).
func WithBuckets(b []float64) Option {
	return func(o *options) { o.buckets = b }
}

// New creates a Manager with its own registry.
func New(opts ...Option) *Manager {
	o := options{
		namespace: defaultNamespace,
		buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Manager{
		registry: prometheus.NewRegistry(),
		plotsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "plots_rendered_total",
			Help:      "Plots rendered successfully, by kind.",
		}, []string{"kind"}),
		renderErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "render_errors_total",
			Help:      "Plots that failed to render, by kind.",
		}, []string{"kind"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Name:      "render_duration_seconds",
			Help:      "Wall time spent building and saving a plot.",
			Buckets:   o.buckets,
		}, []string{"kind"}),
		eventsBinned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "events_binned_total",
			Help:      "Events filled into counts maps.",
		}),
		eventsOutside: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "events_outside_total",
			Help:      "Events falling outside the counts map geometry.",
		}),
	}
	m.registry.MustRegister(m.plotsRendered, m.renderErrors, m.renderDuration, m.eventsBinned, m.eventsOutside)
	return m
}

// ObserveRender records one render attempt of kind.
func (m *Manager) ObserveRender(kind string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.renderDuration.WithLabelValues(kind).Observe(d.Seconds())
	if err != nil {
		m.renderErrors.WithLabelValues(kind).Inc()
		return
	}
	m.plotsRendered.WithLabelValues(kind).Inc()
}

// ObserveCounts records how many events were binned into a counts map.
func (m *Manager) ObserveCounts(binned, outside int) {
	if m == nil {
		return
	}
	m.eventsBinned.Add(float64(binned))
	m.eventsOutside.Add(float64(outside))
}

// Registry exposes the underlying registry, e.g. for tests.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the current metrics atomically to path.
func (m *Manager) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

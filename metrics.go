package ioc

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a point-in-time snapshot of the container counters. The
// counters are monotonic for the container's lifetime; constructing a new
// container is the only reset.
type Metrics struct {
	TotalRegistrations uint64
	TotalResolutions   uint64
	ErrorCount         uint64
}

type metrics struct {
	registrations atomic.Uint64
	resolutions   atomic.Uint64
	errors        atomic.Uint64

	prom *promCollectors
}

func newMetrics(reg prometheus.Registerer, containerID string) *metrics {
	m := &metrics{}
	if reg != nil {
		m.prom = newPromCollectors(reg, containerID)
	}
	return m
}

func (m *metrics) recordRegistration() {
	m.registrations.Add(1)
	if m.prom != nil {
		m.prom.registrations.Inc()
	}
}

func (m *metrics) recordResolution(elapsed time.Duration) {
	m.resolutions.Add(1)
	if m.prom != nil {
		m.prom.resolutions.Inc()
		m.prom.resolveDuration.Observe(elapsed.Seconds())
	}
}

func (m *metrics) recordError() {
	m.errors.Add(1)
	if m.prom != nil {
		m.prom.errors.Inc()
	}
}

func (m *metrics) scopeOpened() {
	if m.prom != nil {
		m.prom.activeScopes.Inc()
	}
}

func (m *metrics) scopeClosed() {
	if m.prom != nil {
		m.prom.activeScopes.Dec()
	}
}

func (m *metrics) snapshot() Metrics {
	return Metrics{
		TotalRegistrations: m.registrations.Load(),
		TotalResolutions:   m.resolutions.Load(),
		ErrorCount:         m.errors.Load(),
	}
}

// promCollectors mirrors the counters into Prometheus. Collectors are
// per-container (labeled by container id) and registered on the
// Registerer supplied via WithMetricsRegisterer, never on the global
// default registry.
type promCollectors struct {
	registrations   prometheus.Counter
	resolutions     prometheus.Counter
	errors          prometheus.Counter
	activeScopes    prometheus.Gauge
	resolveDuration prometheus.Histogram
}

func newPromCollectors(reg prometheus.Registerer, containerID string) *promCollectors {
	labels := prometheus.Labels{"container_id": containerID}

	c := &promCollectors{
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "ioc",
			Name:        "registrations_total",
			Help:        "Total number of descriptor registrations",
			ConstLabels: labels,
		}),
		resolutions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "ioc",
			Name:        "resolutions_total",
			Help:        "Total number of successful resolutions",
			ConstLabels: labels,
		}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "ioc",
			Name:        "errors_total",
			Help:        "Total number of failed operations",
			ConstLabels: labels,
		}),
		activeScopes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "ioc",
			Name:        "scopes_active",
			Help:        "Number of currently active scopes",
			ConstLabels: labels,
		}),
		resolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "ioc",
			Name:        "resolve_duration_seconds",
			Help:        "Resolution duration in seconds",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: labels,
		}),
	}

	reg.MustRegister(c.registrations, c.resolutions, c.errors, c.activeScopes, c.resolveDuration)
	return c
}

// Package metrics provides Prometheus metrics for the lightlock sampler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns all Prometheus collectors for the process.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	// Loop throughput and verdicts
	samplesTotal prometheus.Counter
	jumpsTotal   prometheus.Counter

	// Failures
	sensorReadErrors prometheus.Counter
	triggerErrors    prometheus.Counter

	// Live signal
	currentLux   prometheus.Gauge
	smoothedRate prometheus.Gauge

	// Tick cost (read + detect + dispatch, excluding sleep)
	tickDuration prometheus.Histogram
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithRegistry sets a custom Prometheus registry.
func WithRegistry(r *prometheus.Registry) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

// NewManager creates a metrics manager and registers all collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "lightlock",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	factory := promauto.With(m.registry)

	m.samplesTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "samples_total",
		Help:      "Total number of illuminance samples read from the sensor.",
	})
	m.jumpsTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "jumps_total",
		Help:      "Total number of ticks on which a jump verdict was reported.",
	})
	m.sensorReadErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "sensor_read_errors_total",
		Help:      "Total number of failed sensor reads.",
	})
	m.triggerErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "trigger_errors_total",
		Help:      "Total number of failed trigger action invocations.",
	})
	m.currentLux = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "illuminance_lux",
		Help:      "Most recent illuminance reading in lux.",
	})
	m.smoothedRate = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "smoothed_rate_lux_per_second",
		Help:      "Mean of the derivative window in lux per second.",
	})
	m.tickDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "tick_duration_seconds",
		Help:      "Time spent per tick on sensor read, detection and dispatch.",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.02, 0.04, 0.1},
	})

	return m
}

// Handler returns an http.Handler serving this manager's registry.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Global metrics manager instance.
var globalManager = NewManager() //nolint:gochecknoglobals // singleton metrics manager

// Default returns the global metrics manager.
func Default() *Manager { return globalManager }

// RecordSample increments the sample counter and updates the lux gauge.
func RecordSample(lux float64) {
	globalManager.samplesTotal.Inc()
	globalManager.currentLux.Set(lux)
}

// RecordJump increments the jump counter.
func RecordJump() {
	globalManager.jumpsTotal.Inc()
}

// RecordSensorReadError increments the sensor read error counter.
func RecordSensorReadError() {
	globalManager.sensorReadErrors.Inc()
}

// RecordTriggerError increments the trigger error counter.
func RecordTriggerError() {
	globalManager.triggerErrors.Inc()
}

// UpdateSmoothedRate sets the smoothed rate gauge.
func UpdateSmoothedRate(rate float64) {
	globalManager.smoothedRate.Set(rate)
}

// ObserveTickDuration records the cost of one tick in seconds.
func ObserveTickDuration(seconds float64) {
	globalManager.tickDuration.Observe(seconds)
}

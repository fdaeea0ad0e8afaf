// Package metrics exposes conversion counters on a private Prometheus
// registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nxload"

// Outcome label values.
const (
	OutcomeOK      = "ok"
	OutcomePartial = "partial"
	OutcomeFailed  = "failed"
)

// Metrics holds the conversion metrics and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	FilesTotal         *prometheus.CounterVec
	RecordsTotal       *prometheus.CounterVec
	SpectraTotal       prometheus.Counter
	ConversionDuration *prometheus.HistogramVec
	InFlight           prometheus.Gauge
}

// New creates the metrics and registers them, plus Go runtime collectors,
// on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		FilesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "files",
				Name:      "processed_total",
				Help:      "Total number of source files processed",
			},
			[]string{"outcome"},
		),

		RecordsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "records",
				Name:      "assembled_total",
				Help:      "Total number of measurement records assembled",
			},
			[]string{"kind"},
		),

		SpectraTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "records",
				Name:      "spectra_total",
				Help:      "Total number of spectra added to records",
			},
		),

		ConversionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "files",
				Name:      "duration_seconds",
				Help:      "Time spent converting one source file",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),

		InFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "files",
				Name:      "in_flight",
				Help:      "Number of files currently being converted",
			},
		),
	}

	m.registry.MustRegister(
		m.FilesTotal,
		m.RecordsTotal,
		m.SpectraTotal,
		m.ConversionDuration,
		m.InFlight,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveFile records one finished file.
func (m *Metrics) ObserveFile(outcome string, took time.Duration) {
	m.FilesTotal.WithLabelValues(outcome).Inc()
	m.ConversionDuration.WithLabelValues(outcome).Observe(took.Seconds())
}

// ObserveRecord records one assembled record.
func (m *Metrics) ObserveRecord(kind string, spectra int) {
	m.RecordsTotal.WithLabelValues(kind).Inc()
	m.SpectraTotal.Add(float64(spectra))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

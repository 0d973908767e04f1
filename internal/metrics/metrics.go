// Package metrics exposes viewer counters on a private Prometheus registry.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "molview"

// Build outcomes.
const (
	BuildOK    = "ok"
	BuildEmpty = "empty"
	BuildError = "error"
)

var DefaultSearchBuckets = []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 15}

type Metrics struct {
	registry *prometheus.Registry

	FramesTotal     prometheus.Counter
	BuildsTotal     *prometheus.CounterVec
	FallbacksTotal  prometheus.Counter
	Primitives      *prometheus.GaugeVec
	SearchDuration  *prometheus.HistogramVec
	StatusChanges   prometheus.Counter
	StreamListeners prometheus.Gauge
}

// New registers every viewer metric plus the Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		FramesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames drawn by the render loop.",
		}),
		BuildsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_total",
			Help:      "Molecule builds by outcome.",
		}, []string{"result"}),
		FallbacksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Loads that used the fallback structure.",
		}),
		Primitives: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "primitives",
			Help:      "Primitives in the attached assembly.",
		}, []string{"kind"}),
		SearchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Structure search latency.",
			Buckets:   DefaultSearchBuckets,
		}, []string{"result"}),
		StatusChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_changes_total",
			Help:      "Status board updates.",
		}),
		StreamListeners: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "status_stream_listeners",
			Help:      "Open status WebSocket connections.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
		m.FramesTotal,
		m.BuildsTotal,
		m.FallbacksTotal,
		m.Primitives,
		m.SearchDuration,
		m.StatusChanges,
		m.StreamListeners,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (m *Metrics) Frame() {
	if m == nil {
		return
	}
	m.FramesTotal.Inc()
}

// Build records one build outcome and, on success, the assembly size.
func (m *Metrics) Build(result string, atoms, bonds int) {
	if m == nil {
		return
	}
	m.BuildsTotal.WithLabelValues(result).Inc()
	if result == BuildOK {
		m.Primitives.WithLabelValues("sphere").Set(float64(atoms))
		m.Primitives.WithLabelValues("cylinder").Set(float64(bonds))
	} else {
		m.Primitives.Reset()
	}
}

func (m *Metrics) Fallback() {
	if m == nil {
		return
	}
	m.FallbacksTotal.Inc()
}

func (m *Metrics) Search(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.SearchDuration.WithLabelValues(result).Observe(d.Seconds())
}

func (m *Metrics) StatusChanged() {
	if m == nil {
		return
	}
	m.StatusChanges.Inc()
}

func (m *Metrics) ListenerOpened() {
	if m == nil {
		return
	}
	m.StreamListeners.Inc()
}

func (m *Metrics) ListenerClosed() {
	if m == nil {
		return
	}
	m.StreamListeners.Dec()
}

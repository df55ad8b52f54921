package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "temperature_heatmap"

// Metrics holds the Prometheus collectors for fetching, rendering and interaction.
type Metrics struct {
	FetchDuration *prometheus.HistogramVec // labels: source={http,file}
	FetchErrors   *prometheus.CounterVec   // labels: source={http,file}
	Observations  prometheus.Gauge

	RenderDuration   prometheus.Histogram
	LegendDegenerate prometheus.Gauge

	PointerEvents  *prometheus.CounterVec // labels: type={enter,move,leave}, outcome={ok,ignored}
	ActiveSessions prometheus.Gauge
}

func newMetrics() *Metrics {
	return &Metrics{
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of a dataset fetch by source.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15},
		}, []string{"source"}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_errors_total",
			Help:      "Failed dataset fetches by source.",
		}, []string{"source"}),
		Observations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "observations",
			Help:      "Number of monthly observations in the rendered dataset.",
		}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of building scales, grid and legend.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		LegendDegenerate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "legend_degenerate",
			Help:      "1 when the legend fell back to a single color, 0 otherwise.",
		}),
		PointerEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pointer_events_total",
			Help:      "Pointer events by type and outcome.",
		}, []string{"type", "outcome"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Rendering sessions holding tooltip state.",
		}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FetchDuration,
		m.FetchErrors,
		m.Observations,
		m.RenderDuration,
		m.LegendDegenerate,
		m.PointerEvents,
		m.ActiveSessions,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

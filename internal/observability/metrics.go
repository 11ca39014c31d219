package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the chart service.
type Metrics struct {
	RecordsLoaded prometheus.Gauge
	LoadErrors    prometheus.Counter
	DatasetReady  prometheus.Gauge

	// Interaction metrics.
	ViewsComputed *prometheus.CounterVec // labels: view={primary,comparison}
	HitTests      *prometheus.CounterVec // labels: outcome={hit,miss,empty}

	// Rendering metrics.
	Renders         *prometheus.CounterVec   // labels: format={png,svg}, outcome={success,error}
	RenderDuration  *prometheus.HistogramVec // labels: format={png,svg}
	RenderCache     *prometheus.CounterVec   // labels: result={hit,miss}
	AnimationFrames prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.RecordsLoaded,
		m.LoadErrors,
		m.DatasetReady,
		m.ViewsComputed,
		m.HitTests,
		m.Renders,
		m.RenderDuration,
		m.RenderCache,
		m.AnimationFrames,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid "already
// registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RecordsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sealevel",
			Name:      "records_loaded",
			Help:      "Number of records in the loaded dataset.",
		}),
		LoadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sealevel",
			Name:      "load_errors_total",
			Help:      "Total dataset load failures.",
		}),
		DatasetReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sealevel",
			Name:      "dataset_ready",
			Help:      "1 when a dataset is loaded and serving, 0 otherwise.",
		}),
		ViewsComputed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sealevel",
			Name:      "views_computed_total",
			Help:      "Category views filtered from the dataset for chart renders, by role.",
		}, []string{"view"}),
		HitTests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sealevel",
			Name:      "hit_tests_total",
			Help:      "Pointer hit tests by outcome.",
		}, []string{"outcome"}),
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sealevel",
			Name:      "renders_total",
			Help:      "Chart renders by format and outcome.",
		}, []string{"format", "outcome"}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sealevel",
			Name:      "render_duration_seconds",
			Help:      "Chart render duration in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"format"}),
		RenderCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sealevel",
			Name:      "render_cache_total",
			Help:      "Render cache lookups by result.",
		}, []string{"result"}),
		AnimationFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sealevel",
			Name:      "animation_frames_total",
			Help:      "Water gauge animation frames advanced.",
		}),
	}
}

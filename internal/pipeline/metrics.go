package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for a pipeline run. Long runs over
// large exports expose these through the optional /metrics listener. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry            *prometheus.Registry
	eventsIngested      *prometheus.CounterVec
	effectiveComments   prometheus.Counter
	classifiedTotal     *prometheus.CounterVec
	classificationSkips prometheus.Counter
	reportsEmitted      prometheus.Counter
	runDuration         prometheus.Histogram
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		eventsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "danmaku",
			Name:      "events_ingested_total",
			Help:      "Normalized events ingested from the export",
		}, []string{"kind"}),
		effectiveComments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "danmaku",
			Name:      "effective_comments_total",
			Help:      "Comments surviving the invalidity-pattern filter",
		}),
		classifiedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "danmaku",
			Name:      "classified_total",
			Help:      "Comments classified, by sentiment category",
		}, []string{"category"}),
		classificationSkips: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "danmaku",
			Name:      "classification_skips_total",
			Help:      "Comments skipped due to scoring failures",
		}),
		reportsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "danmaku",
			Name:      "reports_emitted_total",
			Help:      "Report tables emitted",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "danmaku",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of full pipeline runs",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
	}
	registry.MustRegister(
		m.eventsIngested,
		m.effectiveComments,
		m.classifiedTotal,
		m.classificationSkips,
		m.reportsEmitted,
		m.runDuration,
	)
	return m
}

// Registry exposes the collectors for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) addIngested(kind string, n int) {
	if m == nil {
		return
	}
	m.eventsIngested.WithLabelValues(kind).Add(float64(n))
}

func (m *Metrics) addEffective(n int) {
	if m == nil {
		return
	}
	m.effectiveComments.Add(float64(n))
}

func (m *Metrics) incClassified(category string) {
	if m == nil {
		return
	}
	m.classifiedTotal.WithLabelValues(category).Inc()
}

func (m *Metrics) addSkips(n int) {
	if m == nil {
		return
	}
	m.classificationSkips.Add(float64(n))
}

func (m *Metrics) incReports() {
	if m == nil {
		return
	}
	m.reportsEmitted.Inc()
}

func (m *Metrics) observeRun(seconds float64) {
	if m == nil {
		return
	}
	m.runDuration.Observe(seconds)
}

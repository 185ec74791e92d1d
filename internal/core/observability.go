package core

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsRecorder receives operation and persistence timings. Implementations
// must be safe for concurrent use.
type MetricsRecorder interface {
	ObserveOperation(op string, d time.Duration, changed bool)
	ObserveSnapshotSave(driver string, d time.Duration, err error)
	ObserveViolations(n int)
}

type noopMetrics struct{}

func (noopMetrics) ObserveOperation(string, time.Duration, bool) {}

func (noopMetrics) ObserveSnapshotSave(string, time.Duration, error) {}

func (noopMetrics) ObserveViolations(int) {}

// PrometheusMetrics records store activity into Prometheus collectors.
type PrometheusMetrics struct {
	operations *prometheus.HistogramVec
	noops      *prometheus.CounterVec
	saves      *prometheus.HistogramVec
	saveErrors *prometheus.CounterVec
	violations prometheus.Counter
}

// NewPrometheusMetrics builds the collectors and registers them with reg.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	m := &PrometheusMetrics{
		operations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mattercore",
			Name:      "operation_duration_seconds",
			Help:      "Duration of store operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		noops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mattercore",
			Name:      "operation_noops_total",
			Help:      "Operations that completed without changing state.",
		}, []string{"op"}),
		saves: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mattercore",
			Name:      "snapshot_save_duration_seconds",
			Help:      "Duration of snapshot persistence writes.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"driver"}),
		saveErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mattercore",
			Name:      "snapshot_save_errors_total",
			Help:      "Snapshot persistence writes that failed.",
		}, []string{"driver"}),
		violations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mattercore",
			Name:      "rule_violations_total",
			Help:      "Integrity rule violations observed after commits.",
		}),
	}
	reg.MustRegister(m.operations, m.noops, m.saves, m.saveErrors, m.violations)
	return m
}

func (m *PrometheusMetrics) ObserveOperation(op string, d time.Duration, changed bool) {
	m.operations.WithLabelValues(op).Observe(d.Seconds())
	if !changed {
		m.noops.WithLabelValues(op).Inc()
	}
}

func (m *PrometheusMetrics) ObserveSnapshotSave(driver string, d time.Duration, err error) {
	m.saves.WithLabelValues(driver).Observe(d.Seconds())
	if err != nil {
		m.saveErrors.WithLabelValues(driver).Inc()
	}
}

func (m *PrometheusMetrics) ObserveViolations(n int) {
	m.violations.Add(float64(n))
}

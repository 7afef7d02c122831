package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type sessionMetrics struct {
	loadDuration prometheus.Histogram
	saveDuration prometheus.Histogram

	openDocuments    prometheus.Gauge
	persistedWrites  *prometheus.CounterVec
	loadFailures     *prometheus.CounterVec
	autosaveFailures prometheus.Counter
}

var (
	metricsOnce sync.Once
	metricsInst *sessionMetrics
)

func getMetrics() *sessionMetrics {
	metricsOnce.Do(func() {
		m := &sessionMetrics{
			loadDuration: prometheus.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "session_load_duration_seconds",
					Help:    "Session record load duration in seconds.",
					Buckets: prometheus.DefBuckets,
				},
			),
			saveDuration: prometheus.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "session_save_duration_seconds",
					Help:    "Session record save duration in seconds.",
					Buckets: prometheus.DefBuckets,
				},
			),
			openDocuments: prometheus.NewGauge(
				prometheus.GaugeOpts{
					Name: "session_open_documents",
					Help: "Documents currently holding per-document session state.",
				},
			),
			persistedWrites: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "session_persisted_writes_total",
					Help: "Persist-flagged writes by persistence mode.",
				},
				[]string{"mode"},
			),
			loadFailures: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "session_load_failures_total",
					Help: "Session load failures by reason.",
				},
				[]string{"reason"},
			),
			autosaveFailures: prometheus.NewCounter(
				prometheus.CounterOpts{
					Name: "session_autosave_failures_total",
					Help: "Autosave flushes that failed to write the record.",
				},
			),
		}

		prometheus.MustRegister(
			m.loadDuration,
			m.saveDuration,
			m.openDocuments,
			m.persistedWrites,
			m.loadFailures,
			m.autosaveFailures,
		)

		metricsInst = m
	})

	return metricsInst
}

// EnsureRegistered initializes and registers metrics the first time it is called.
func EnsureRegistered() {
	_ = getMetrics()
}

// MetricsHandler returns an http.Handler exposing the registered metrics for
// hosts that serve a metrics endpoint.
func MetricsHandler() http.Handler {
	EnsureRegistered()
	return promhttp.Handler()
}

// RecordSessionLoad records the duration of a session load.
func RecordSessionLoad(d time.Duration) {
	getMetrics().loadDuration.Observe(d.Seconds())
}

// RecordSessionSave records the duration of a session save.
func RecordSessionSave(d time.Duration) {
	getMetrics().saveDuration.Observe(d.Seconds())
}

// SetOpenDocuments updates the count of documents with live per-document state.
func SetOpenDocuments(n int) {
	getMetrics().openDocuments.Set(float64(n))
}

// RecordPersistedWrite counts a persist-flagged write under its mode
// ("eager" or "deferred").
func RecordPersistedWrite(mode string) {
	getMetrics().persistedWrites.WithLabelValues(mode).Inc()
}

// RecordLoadFailure counts a degraded load ("unreadable" or "malformed").
func RecordLoadFailure(reason string) {
	getMetrics().loadFailures.WithLabelValues(reason).Inc()
}

// RecordAutosaveFailure counts a failed autosave flush.
func RecordAutosaveFailure() {
	getMetrics().autosaveFailures.Inc()
}

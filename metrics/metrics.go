// Package metrics provides Prometheus instrumentation for the explorer.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Scheduler metrics
	workItemsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "backup_explorer_work_items_submitted_total",
			Help: "Total number of work items submitted to the database worker",
		},
	)

	workItemsExecuted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backup_explorer_work_items_executed_total",
			Help: "Total number of work items executed by the database worker",
		},
		[]string{"status"},
	)

	workItemsDiscarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "backup_explorer_work_items_discarded_total",
			Help: "Total number of work items discarded after cancellation",
		},
	)

	workItemsInline = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "backup_explorer_work_items_inline_total",
			Help: "Total number of nested work items executed inline on the worker",
		},
	)

	queueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "backup_explorer_queue_depth",
			Help: "Number of queued work items not yet started",
		},
	)

	// Cache metrics
	filesetsMaterialized = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "backup_explorer_filesets_materialized_total",
			Help: "Total number of file trees loaded from the database",
		},
	)

	filesetsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "backup_explorer_filesets_evicted_total",
			Help: "Total number of file trees evicted from the cache",
		},
	)

	filesetsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "backup_explorer_filesets_loaded",
			Help: "Number of file trees currently held in memory",
		},
	)

	lazyLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backup_explorer_lazy_loads_total",
			Help: "Total number of background loads by outcome",
		},
		[]string{"outcome"},
	)

	loadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "backup_explorer_database_load_duration_seconds",
			Help:    "Time to load the backup catalog of a database",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Comparison metrics
	filesCompared = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "backup_explorer_files_compared_total",
			Help: "Total number of files classified by comparisons",
		},
	)

	compareDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backup_explorer_compare_duration_seconds",
			Help:    "Comparison duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)
)

// Handler returns the HTTP handler serving all registered metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

func WorkItemSubmitted() {
	workItemsSubmitted.Inc()
}

func WorkItemExecuted(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	workItemsExecuted.WithLabelValues(status).Inc()
}

func WorkItemDiscarded() {
	workItemsDiscarded.Inc()
}

func WorkItemInline() {
	workItemsInline.Inc()
}

func QueueDepthInc() {
	queueDepth.Inc()
}

func QueueDepthDec() {
	queueDepth.Dec()
}

func FilesetMaterialized() {
	filesetsMaterialized.Inc()
}

func FilesetEvicted() {
	filesetsEvicted.Inc()
}

func SetFilesetsLoaded(n int) {
	filesetsLoaded.Set(float64(n))
}

// LazyLoad records a background load; outcome is "published" or "superseded".
func LazyLoad(outcome string) {
	lazyLoads.WithLabelValues(outcome).Inc()
}

func ObserveLoad(start time.Time) {
	loadDuration.Observe(time.Since(start).Seconds())
}

func FileCompared() {
	filesCompared.Inc()
}

func ObserveCompare(mode string, start time.Time) {
	compareDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
}

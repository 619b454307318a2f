// Package metrics exposes Prometheus instruments for alignment, fetching and
// caching.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Drop reasons for edits that could not be applied.
const (
	ReasonMalformed  = "malformed"
	ReasonOutOfRange = "out_of_range"
)

var (
	// EditsApplied counts edit applications that changed a buffer, by kind.
	EditsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "isoflow_edits_applied_total",
		Help: "Edit applications that changed an alignment buffer",
	}, []string{"kind"})

	// EditsDropped counts edits discarded during alignment, by reason.
	EditsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "isoflow_edits_dropped_total",
		Help: "Edits dropped during alignment",
	}, []string{"reason"})

	AlignDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "isoflow_align_duration_seconds",
		Help:    "Duration of one alignment run",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	})

	FetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "isoflow_fetch_duration_seconds",
		Help:    "Duration of UniProt document downloads",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})

	FetchRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "isoflow_fetch_retries_total",
		Help: "Retried UniProt requests",
	})

	// CacheLookups counts document lookups by cache layer and result.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "isoflow_cache_lookups_total",
		Help: "Document cache lookups",
	}, []string{"layer", "result"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "isoflow_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

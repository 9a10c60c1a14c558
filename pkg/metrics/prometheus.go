// Package metrics provides Prometheus metrics for the scoutdb index.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Record kinds used as label values.
const (
	KindPlayer = "player"
	KindRating = "rating"
	KindTag    = "tag"
)

// Manager manages all Prometheus metrics for scoutdb.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Ingestion
	recordsIngested   *prometheus.CounterVec
	recordsSkipped    *prometheus.CounterVec
	ingestDuration    prometheus.Histogram
	queueDepth        prometheus.Gauge
	rankIndexDuration prometheus.Histogram

	// Queries
	queries      *prometheus.CounterVec
	queryLatency *prometheus.HistogramVec
	queryResults prometheus.Histogram
	cacheHits    prometheus.Counter
	cacheMisses  prometheus.Counter

	// Dataset shape
	players   prometheus.Gauge
	users     prometheus.Gauge
	tags      prometheus.Gauge
	positions prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "scoutdb",
		subsystem:        "index",
		histogramBuckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.recordsIngested = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_ingested_total",
		Help:      "Records applied to the index by kind",
	}, []string{"kind"})

	m.recordsSkipped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_skipped_total",
		Help:      "Records rejected during ingestion by kind and reason",
	}, []string{"kind", "reason"})

	m.ingestDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ingest_duration_seconds",
		Help:      "Wall time of a full dataset load",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
	})

	m.queueDepth = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ingest_queue_depth",
		Help:      "Records waiting in the ingestion queue",
	})

	m.rankIndexDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rank_index_build_milliseconds",
		Help:      "Time spent building the per-position rank trees",
		Buckets:   m.histogramBuckets,
	})

	m.queries = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queries_total",
		Help:      "Queries executed by kind and outcome",
	}, []string{"kind", "outcome"})

	m.queryLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "query_latency_milliseconds",
		Help:      "Query execution latency in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"kind"})

	m.queryResults = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "query_result_size",
		Help:      "Number of players returned per query",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	})

	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "query_cache_hits_total",
		Help:      "Queries answered from the result cache",
	})

	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "query_cache_misses_total",
		Help:      "Queries that had to reach the index",
	})

	m.players = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "players",
		Help:      "Players stored in the index",
	})

	m.users = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "users",
		Help:      "Users that submitted at least one rating",
	})

	m.tags = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tags",
		Help:      "Distinct tags in the tag index",
	})

	m.positions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ranked_positions",
		Help:      "Positions with a rank tree",
	})
}

// RecordIngested increments the applied-records counter for kind.
func RecordIngested(kind string) {
	globalManager.recordsIngested.WithLabelValues(kind).Inc()
}

// RecordSkipped increments the rejected-records counter.
func RecordSkipped(kind, reason string) {
	globalManager.recordsSkipped.WithLabelValues(kind, reason).Inc()
}

// RecordIngestDuration records a full load in seconds.
func RecordIngestDuration(seconds float64) {
	globalManager.ingestDuration.Observe(seconds)
}

// UpdateQueueDepth sets the ingestion queue depth.
func UpdateQueueDepth(depth int) {
	globalManager.queueDepth.Set(float64(depth))
}

// RecordRankIndexDuration records the rank tree build time in milliseconds.
func RecordRankIndexDuration(ms float64) {
	globalManager.rankIndexDuration.Observe(ms)
}

// RecordQuery counts a query and observes its latency.
func RecordQuery(kind, outcome string, latencyMs float64) {
	globalManager.queries.WithLabelValues(kind, outcome).Inc()
	globalManager.queryLatency.WithLabelValues(kind).Observe(latencyMs)
}

// RecordQueryResultSize observes how many players a query returned.
func RecordQueryResultSize(n int) {
	globalManager.queryResults.Observe(float64(n))
}

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() {
	globalManager.cacheMisses.Inc()
}

// UpdateDatasetSize sets the dataset shape gauges.
func UpdateDatasetSize(players, users, tags, positions int) {
	globalManager.players.Set(float64(players))
	globalManager.users.Set(float64(users))
	globalManager.tags.Set(float64(tags))
	globalManager.positions.Set(float64(positions))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteText writes every metric family of the custom registry to w in the
// Prometheus text exposition format.
func WriteText(w io.Writer) error {
	families, err := customRegistry.Gather()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrGather, err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysesComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hoq_analyses_computed_total",
			Help: "Total number of project analyses computed",
		},
		[]string{"trigger"},
	)

	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "hoq_analysis_duration_seconds",
			Help: "Duration of a full project analysis in seconds",
		},
	)

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hoq_analysis_cache_hits_total",
			Help: "Total number of analysis cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hoq_analysis_cache_misses_total",
			Help: "Total number of analysis cache misses",
		},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hoq_events_published_total",
			Help: "Total number of events published to the broker",
		},
		[]string{"kind"},
	)

	RefreshQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hoq_refresh_queue_depth",
			Help: "Number of projects waiting for a background recompute",
		},
	)
)

const (
	TriggerRequest   = "request"
	TriggerRefresher = "refresher"

	KindProjectChanged   = "project_changed"
	KindAnalysisComputed = "analysis_computed"
)

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Core request/hit/miss counters
	ComponentRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "component_requests_total",
			Help: "Total number of valid component requests",
		},
		[]string{"component_type", "language"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "component_cache_hits_total",
			Help: "Total number of component requests served from cache",
		},
		[]string{"component_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "component_cache_misses_total",
			Help: "Total number of component requests that needed a generation",
		},
		[]string{"component_type"},
	)

	ComponentErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "component_errors_total",
			Help: "Total number of failed component requests by error kind",
		},
		[]string{"kind"}, // invalid_input, generation, admission_timeout, cancelled
	)

	// Generation
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "component_generation_duration_seconds",
			Help:    "Duration of component generation calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"component_type", "outcome"},
	)

	PendingGenerations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "component_pending_generations",
			Help: "Number of generations currently in flight",
		},
	)

	CoalescedRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "component_coalesced_requests_total",
			Help: "Total number of requests that shared a generation with other requests",
		},
	)

	// Admission control
	LimiterCapacity = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "generation_limiter_capacity",
			Help: "Configured maximum number of concurrent generations",
		},
	)

	LimiterInUse = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "generation_limiter_in_use",
			Help: "Number of generation slots currently held",
		},
	)

	AdmissionTimeouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "generation_admission_timeouts_total",
			Help: "Total number of generations rejected because no slot freed up in time",
		},
	)

	AdmissionWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "generation_admission_wait_seconds",
			Help:    "Time spent waiting for a generation slot",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Cache state
	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "component_cache_entries",
			Help: "Number of live entries in the component cache",
		},
	)

	CacheCapacity = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "component_cache_capacity_entries",
			Help: "Maximum number of entries in the component cache",
		},
	)

	CacheRemovals = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "component_cache_removals_total",
			Help: "Total number of entries removed from the component cache",
		},
		[]string{"reason"}, // evicted, expired, invalidated
	)
)

// RecordComponentRequest records a validated component request
func RecordComponentRequest(componentType, language string) {
	ComponentRequests.WithLabelValues(componentType, language).Inc()
}

// RecordCacheHit records a request served from cache
func RecordCacheHit(componentType string) {
	CacheHits.WithLabelValues(componentType).Inc()
}

// RecordCacheMiss records a request answered by a new generation
func RecordCacheMiss(componentType string) {
	CacheMisses.WithLabelValues(componentType).Inc()
}

// RecordComponentError records a failed request by error kind
func RecordComponentError(kind string) {
	ComponentErrors.WithLabelValues(kind).Inc()
}

// TimeGeneration returns a function that records the generation duration with its outcome
func TimeGeneration(componentType string) func(err error) {
	start := time.Now()
	return func(err error) {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		GenerationDuration.WithLabelValues(componentType, outcome).Observe(time.Since(start).Seconds())
	}
}

// UpdatePendingGenerations sets the number of in-flight generations
func UpdatePendingGenerations(n int64) {
	PendingGenerations.Set(float64(n))
}

// RecordCoalescedRequest records a request that shared its generation
func RecordCoalescedRequest() {
	CoalescedRequests.Inc()
}

// UpdateLimiterCapacity sets the configured limiter size
func UpdateLimiterCapacity(capacity int64) {
	LimiterCapacity.Set(float64(capacity))
}

// UpdateLimiterInUse sets the number of held limiter slots
func UpdateLimiterInUse(n int64) {
	LimiterInUse.Set(float64(n))
}

// RecordAdmissionTimeout records a rejected admission
func RecordAdmissionTimeout() {
	AdmissionTimeouts.Inc()
}

// ObserveAdmissionWait records how long an admitted operation waited for its slot
func ObserveAdmissionWait(d time.Duration) {
	AdmissionWait.Observe(d.Seconds())
}

// UpdateCacheSize sets the cache entry and capacity gauges
func UpdateCacheSize(entries, capacity int) {
	CacheEntries.Set(float64(entries))
	CacheCapacity.Set(float64(capacity))
}

// RecordCacheRemoval records an entry leaving the cache
func RecordCacheRemoval(reason string) {
	CacheRemovals.WithLabelValues(reason).Inc()
}

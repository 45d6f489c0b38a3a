package metric

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "civ7save"

// Decode results used as the "result" label.
const (
	ResultOK               = "ok"
	ResultNotASave         = "not_a_save"
	ResultUnknownChunkType = "unknown_chunk_type"
	ResultTruncated        = "truncated"
	ResultError            = "error"
)

// Registry holds all application metrics. A nil *Registry is valid and
// records nothing.
type Registry struct {
	registry *prometheus.Registry

	// Decode metrics
	DecodesTotal   *prometheus.CounterVec
	DecodeDuration prometheus.Histogram
	DecodeBytes    prometheus.Histogram
	ChunksDecoded  *prometheus.CounterVec
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter

	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RateLimited     prometheus.Counter

	// Storage metrics
	IndexedSaves prometheus.Gauge
	StorageBytes *prometheus.GaugeVec
}

var (
	global     *Registry
	globalOnce sync.Once
)

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		global = NewRegistry()
	})
	return global
}

// Handler serves the process-wide registry.
func Handler() http.Handler {
	return Global().Handler()
}

// NewRegistry creates a registry with all application metrics plus the Go
// runtime and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{
		registry: reg,
		DecodesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decodes_total",
			Help:      "Save decodes by result.",
		}, []string{"result"}),
		DecodeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "decode_duration_seconds",
			Help:      "Time spent decoding a save file.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		DecodeBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "decode_input_bytes",
			Help:      "Size of decoded save files.",
			Buckets:   prometheus.ExponentialBuckets(64*1024, 2, 10),
		}),
		ChunksDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_decoded_total",
			Help:      "Top-level and nested chunks decoded, by type.",
		}, []string{"type"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_cache_hits_total",
			Help:      "Decodes served from the cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_cache_misses_total",
			Help:      "Decodes not found in the cache.",
		}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "HTTP requests rejected by the rate limiter.",
		}),
		IndexedSaves: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "indexed_saves",
			Help:      "Saves recorded in the index.",
		}),
		StorageBytes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "storage_bytes",
			Help:      "Storage engine size by component.",
		}, []string{"component"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.DecodesTotal,
		r.DecodeDuration,
		r.DecodeBytes,
		r.ChunksDecoded,
		r.CacheHits,
		r.CacheMisses,
		r.RequestsTotal,
		r.RequestDuration,
		r.RateLimited,
		r.IndexedSaves,
		r.StorageBytes,
	)
	return r
}

// Handler returns an HTTP handler exposing this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// RecordDecode records one decode attempt.
func (r *Registry) RecordDecode(result string, seconds float64, size int) {
	if r == nil {
		return
	}
	r.DecodesTotal.WithLabelValues(result).Inc()
	r.DecodeDuration.Observe(seconds)
	r.DecodeBytes.Observe(float64(size))
}

// AddChunks adds n decoded chunks of the given type.
func (r *Registry) AddChunks(typ string, n int) {
	if r == nil || n == 0 {
		return
	}
	r.ChunksDecoded.WithLabelValues(typ).Add(float64(n))
}

func (r *Registry) IncCacheHit() {
	if r == nil {
		return
	}
	r.CacheHits.Inc()
}

func (r *Registry) IncCacheMiss() {
	if r == nil {
		return
	}
	r.CacheMisses.Inc()
}

// RecordRequest counts one HTTP request.
func (r *Registry) RecordRequest(method, route, status string) {
	if r == nil {
		return
	}
	r.RequestsTotal.WithLabelValues(method, route, status).Inc()
}

// ObserveRequestDuration records HTTP request latency.
func (r *Registry) ObserveRequestDuration(method, route string, seconds float64) {
	if r == nil {
		return
	}
	r.RequestDuration.WithLabelValues(method, route).Observe(seconds)
}

func (r *Registry) IncRateLimited() {
	if r == nil {
		return
	}
	r.RateLimited.Inc()
}

func (r *Registry) SetIndexedSaves(n int) {
	if r == nil {
		return
	}
	r.IndexedSaves.Set(float64(n))
}

// SetStorageBytes records the engine's LSM and value log sizes.
func (r *Registry) SetStorageBytes(lsm, vlog int64) {
	if r == nil {
		return
	}
	r.StorageBytes.WithLabelValues("lsm").Set(float64(lsm))
	r.StorageBytes.WithLabelValues("vlog").Set(float64(vlog))
}

// Package metrics provides Prometheus metrics for the directory cache.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the counters recorded by finders and caches.
type Metrics struct {
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
	CacheStoresTotal *prometheus.CounterVec
	SearchesTotal    *prometheus.CounterVec
	WritesTotal      *prometheus.CounterVec
}

// New creates the metrics and registers them on reg. A nil registerer
// leaves them unregistered, which keeps tests isolated from the default
// registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adi_cache_hits_total",
				Help: "Total number of finder lookups answered from the cache",
			},
			[]string{"type"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adi_cache_misses_total",
				Help: "Total number of cache-eligible lookups that fell through to a search",
			},
			[]string{"type"},
		),
		CacheStoresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adi_cache_stores_total",
				Help: "Total number of records written to the cache",
			},
			[]string{"type"},
		),
		SearchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adi_searches_total",
				Help: "Total number of directory searches",
			},
			[]string{"type", "status"},
		),
		WritesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adi_writes_total",
				Help: "Total number of directory write operations",
			},
			[]string{"type", "operation", "status"},
		),
	}
}

// RecordCacheHit increments the hit counter for a record type.
func (m *Metrics) RecordCacheHit(typeName string) {
	if m == nil {
		return
	}
	m.CacheHitsTotal.WithLabelValues(typeName).Inc()
}

// RecordCacheMiss increments the miss counter for a record type.
func (m *Metrics) RecordCacheMiss(typeName string) {
	if m == nil {
		return
	}
	m.CacheMissesTotal.WithLabelValues(typeName).Inc()
}

// RecordCacheStore increments the store counter for a record type.
func (m *Metrics) RecordCacheStore(typeName string) {
	if m == nil {
		return
	}
	m.CacheStoresTotal.WithLabelValues(typeName).Inc()
}

// RecordSearch records a search outcome: ok, empty, error or offline.
func (m *Metrics) RecordSearch(typeName, status string) {
	if m == nil {
		return
	}
	m.SearchesTotal.WithLabelValues(typeName, status).Inc()
}

// RecordWrite records a write outcome.
func (m *Metrics) RecordWrite(typeName, operation string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.WritesTotal.WithLabelValues(typeName, operation, status).Inc()
}

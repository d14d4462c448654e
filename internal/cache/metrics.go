// Prometheus collectors for cache behavior. Label cardinality is bounded by
// the fixed set of query shapes and logical keys.
package cache

import "github.com/prometheus/client_golang/prometheus"

var (
	// hitsTotal counts list operations served from a fresh cache shape.
	hitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adoption_cache_hits_total",
			Help: "List operations served from cache within the TTL window.",
		},
		[]string{"shape"},
	)

	// missesTotal counts list operations that went to the remote store.
	missesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adoption_cache_misses_total",
			Help: "List operations that required a remote fetch.",
		},
		[]string{"shape"},
	)

	// coalescedTotal counts callers that piggybacked on an in-flight fetch.
	coalescedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adoption_inflight_coalesced_total",
			Help: "Callers coalesced onto an already in-flight fetch.",
		},
		[]string{"key"},
	)
)

func init() {
	prometheus.MustRegister(hitsTotal, missesTotal, coalescedTotal)
}

// RecordHit marks a cache hit for a query shape.
func RecordHit(shape string) { hitsTotal.WithLabelValues(shape).Inc() }

// RecordMiss marks a cache miss for a query shape.
func RecordMiss(shape string) { missesTotal.WithLabelValues(shape).Inc() }

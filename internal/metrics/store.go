package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreQueryDuration tracks Postgres statement latency by statement kind
// (rows, count, distinct, aggregate, ping).
var StoreQueryDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "cytokb",
		Name:      "store_query_duration_seconds",
		Help:      "Postgres statement duration in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	},
	[]string{"query", "outcome"},
)

// CacheLookupsTotal counts result-cache lookups by resource and outcome
// (hit, miss, error).
var CacheLookupsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "cytokb",
		Name:      "cache_lookups_total",
		Help:      "Result cache lookups by outcome",
	},
	[]string{"resource", "outcome"},
)

// RegisterStoreMetrics registers store and cache collectors explicitly (no init()).
func RegisterStoreMetrics() {
	prometheus.MustRegister(StoreQueryDuration)
	prometheus.MustRegister(CacheLookupsTotal)
}

// ObserveQuery records one statement execution.
func ObserveQuery(query string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	StoreQueryDuration.WithLabelValues(query, outcome).Observe(time.Since(start).Seconds())
}

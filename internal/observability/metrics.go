package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "planetctl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "planetctl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	catalogRows = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "planetctl",
			Subsystem: "catalog",
			Name:      "planets_loaded",
			Help:      "Planets in the current session catalog.",
		},
	)
	rankingQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "planetctl",
			Subsystem: "analytics",
			Name:      "queries_total",
			Help:      "Ranking and aggregation queries served.",
		},
		[]string{"query"},
	)
	importRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "planetctl",
			Subsystem: "prices",
			Name:      "import_rows_total",
			Help:      "Price import rows by outcome.",
		},
		[]string{"outcome"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, catalogRows, rankingQueries, importRows)
	})
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}

func RecordCatalogSize(planets int) {
	RegisterMetrics()
	catalogRows.Set(float64(planets))
}

func RecordRankingQuery(query string) {
	RegisterMetrics()
	rankingQueries.WithLabelValues(query).Inc()
}

func RecordImportRows(imported, skipped, coerced int) {
	RegisterMetrics()
	importRows.WithLabelValues("imported").Add(float64(imported))
	importRows.WithLabelValues("skipped").Add(float64(skipped))
	importRows.WithLabelValues("coerced").Add(float64(coerced))
}

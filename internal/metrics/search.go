package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dreamdex"

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Total number of search requests by outcome",
		},
		[]string{"outcome"}, // ok / empty / too_short / bad_query / error
	)

	SearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Number of ranked results returned per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		},
	)

	SearchLogWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_log_writes_total",
			Help:      "Search log writes by status",
		},
		[]string{"status"}, // ok / error / dropped
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchResults)
	prometheus.MustRegister(SearchLogWritesTotal)
	searchMetricsRegistered = true
}

// Recorder feeds use case observations into the search metrics.
type Recorder struct{}

// NewRecorder returns a Recorder backed by the package level collectors.
func NewRecorder() *Recorder { return &Recorder{} }

// ObserveSearch counts a finished search and its result count.
func (Recorder) ObserveSearch(outcome string, results int) {
	SearchRequestsTotal.WithLabelValues(outcome).Inc()
	SearchResults.Observe(float64(results))
}

// ObserveLogWrite counts one search log write attempt.
func (Recorder) ObserveLogWrite(status string) {
	SearchLogWritesTotal.WithLabelValues(status).Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

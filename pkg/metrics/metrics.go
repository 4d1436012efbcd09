// Package metrics defines Prometheus metrics for the analyzer server.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ppinet_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ppinet_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ppinet_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	AnalysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ppinet_analysis_duration_seconds",
			Help:    "Neighborhood analysis duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"analysis"},
	)

	NodeCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ppinet_graph_nodes",
			Help: "Proteins in the loaded graph",
		},
	)

	EdgeCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ppinet_graph_edges",
			Help: "Interactions in the loaded graph",
		},
	)

	KnownCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ppinet_known_proteins",
			Help: "Annotated proteins in the loaded set",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		AnalysisDuration,
		NodeCount, EdgeCount, KnownCount,
	)
}

// SetGraph records the size of the loaded inputs.
func SetGraph(nodes, edges, known int) {
	NodeCount.Set(float64(nodes))
	EdgeCount.Set(float64(edges))
	KnownCount.Set(float64(known))
}

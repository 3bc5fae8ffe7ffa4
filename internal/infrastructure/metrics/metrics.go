package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Report-API Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vms",
			Subsystem: "report_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vms",
			Subsystem: "report_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	// Report generation counters
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vms",
			Subsystem: "report_api",
			Name:      "generations_total",
			Help:      "Total report generations",
		},
		[]string{"report_type", "format", "status"},
	)

	// Generation duration
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vms",
			Subsystem: "report_api",
			Name:      "generation_duration_seconds",
			Help:      "Report generation duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"report_type"},
	)

	// Download counters
	DownloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vms",
			Subsystem: "report_api",
			Name:      "downloads_total",
			Help:      "Total artifact downloads",
		},
		[]string{"format", "status"},
	)

	// Cache hit/miss counters
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vms",
			Subsystem: "report_api",
			Name:      "cache_lookups_total",
			Help:      "Total cache lookups",
		},
		[]string{"result"},
	)

	// Sweep results
	SweepRemovedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vms",
			Subsystem: "report_api",
			Name:      "sweep_removed_total",
			Help:      "Total rows removed by the retention sweeper",
		},
		[]string{"target"},
	)

	SweepErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vms",
			Subsystem: "report_api",
			Name:      "sweep_errors_total",
			Help:      "Total retention sweep failures",
		},
		[]string{"target"},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordGeneration records a report generation attempt
func RecordGeneration(reportType, format, status string, durationSec float64) {
	GenerationsTotal.WithLabelValues(reportType, format, status).Inc()
	GenerationDuration.WithLabelValues(reportType).Observe(durationSec)
}

// RecordDownload records an artifact download attempt
func RecordDownload(format, status string) {
	DownloadsTotal.WithLabelValues(format, status).Inc()
}

// RecordCacheLookup records a cache hit or miss
func RecordCacheLookup(result string) {
	CacheLookupsTotal.WithLabelValues(result).Inc()
}

// RecordSweep records one sweep pass over a target table
func RecordSweep(target string, removed int64, err error) {
	if err != nil {
		SweepErrorsTotal.WithLabelValues(target).Inc()
		return
	}
	SweepRemovedTotal.WithLabelValues(target).Add(float64(removed))
}

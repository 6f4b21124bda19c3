package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pdf_extractor"

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	PDFOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "pdf_operations_total", Help: "PDF service operations by outcome."},
		[]string{"operation", "outcome"},
	)
	PagesExtracted = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "pdf_pages_extracted_total", Help: "Pages written into extracted documents."},
	)
	StorageCleanupFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "storage_cleanup_failures_total", Help: "Stored objects left orphaned after failed cleanup."},
	)
	SourceDeleteFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "source_delete_failures_total", Help: "Extractions whose source record could not be deleted."},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: namespace, Name: "http_request_duration_seconds", Help: "HTTP request latency.", Buckets: prometheus.DefBuckets},
		[]string{"method", "route", "status"},
	)
)

// Outcome labels for PDFOperations.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// ObserveOperation records one PDF service call.
func ObserveOperation(op string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	PDFOperations.WithLabelValues(op, outcome).Inc()
}

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(PDFOperations)
	reg.MustRegister(PagesExtracted)
	reg.MustRegister(StorageCleanupFailures)
	reg.MustRegister(SourceDeleteFailures)
	reg.MustRegister(HTTPRequestDuration)
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the intake pipeline's Prometheus metrics.
type Metrics struct {
	SubmissionsTotal    *prometheus.CounterVec
	DuplicatesTotal     *prometheus.CounterVec
	ExtractionFailures  prometheus.Counter
	FingerprintFailures prometheus.Counter
	PipelineDuration    prometheus.Histogram
}

// New creates and registers all pipeline metrics.
func New() *Metrics {
	return &Metrics{
		SubmissionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kycgate_submissions_total",
			Help: "Total submissions by terminal verdict",
		}, []string{"verdict"}),
		DuplicatesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kycgate_duplicates_total",
			Help: "Duplicate rejections by detection layer",
		}, []string{"layer"}),
		ExtractionFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kycgate_text_extraction_failures_total",
			Help: "OCR attempts that failed and were swallowed",
		}),
		FingerprintFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kycgate_fingerprint_failures_total",
			Help: "Perceptual hash attempts that failed and were swallowed",
		}),
		PipelineDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "kycgate_pipeline_duration_seconds",
			Help:    "End-to-end submission pipeline latency",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
	}
}

// RecordVerdict counts a terminal submission outcome.
func (m *Metrics) RecordVerdict(verdict string) {
	m.SubmissionsTotal.WithLabelValues(verdict).Inc()
}

// RecordDuplicate counts a duplicate rejection by layer.
func (m *Metrics) RecordDuplicate(layer string) {
	m.DuplicatesTotal.WithLabelValues(layer).Inc()
}

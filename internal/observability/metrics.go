package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	pipelineRunsTotal          *prometheus.CounterVec
	pipelineRunSeconds         prometheus.Histogram
	transcriptionStageSeconds  prometheus.Histogram
	transcriptionFailuresTotal prometheus.Counter
	judgeFailuresTotal         prometheus.Counter
	aggregationFailuresTotal   prometheus.Counter
	uploadRejectedTotal        *prometheus.CounterVec

	httpRequestsTotal  *prometheus.CounterVec
	httpLatencySeconds *prometheus.HistogramVec
)

// RegisterMetrics initialises the Prometheus collectors for the evaluation
// pipeline.
func RegisterMetrics() {
	registerOnce.Do(func() {
		pipelineRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evaluation_pipeline_runs_total",
			Help: "Total number of background evaluation runs, by outcome.",
		}, []string{"outcome"})

		pipelineRunSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "evaluation_pipeline_run_seconds",
			Help:    "Duration distribution for full evaluation runs.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		})

		transcriptionStageSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "evaluation_transcription_seconds",
			Help:    "Duration distribution for single-answer transcriptions.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		})

		transcriptionFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "evaluation_transcription_failures_total",
			Help: "Total number of answers that received a diagnostic transcript.",
		})

		judgeFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "evaluation_judge_failures_total",
			Help: "Total number of answers that received a degraded analysis.",
		})

		aggregationFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "evaluation_aggregation_failures_total",
			Help: "Total number of submissions flagged for manual review after an aggregation error.",
		})

		uploadRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "upload_rejected_total",
			Help: "Total number of rejected answer video uploads, by reason.",
		}, []string{"reason"})

		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		prometheus.MustRegister(
			pipelineRunsTotal,
			pipelineRunSeconds,
			transcriptionStageSeconds,
			transcriptionFailuresTotal,
			judgeFailuresTotal,
			aggregationFailuresTotal,
			uploadRejectedTotal,
			httpRequestsTotal,
			httpLatencySeconds,
		)
	})
}

// PipelineRuns exposes the run counter.
func PipelineRuns() *prometheus.CounterVec {
	RegisterMetrics()
	return pipelineRunsTotal
}

// PipelineRunDuration exposes the run duration histogram.
func PipelineRunDuration() prometheus.Histogram {
	RegisterMetrics()
	return pipelineRunSeconds
}

// TranscriptionStageLatency exposes the per-answer transcription histogram.
func TranscriptionStageLatency() prometheus.Histogram {
	RegisterMetrics()
	return transcriptionStageSeconds
}

// TranscriptionFailures exposes the diagnostic transcript counter.
func TranscriptionFailures() prometheus.Counter {
	RegisterMetrics()
	return transcriptionFailuresTotal
}

// JudgeFailures exposes the degraded analysis counter.
func JudgeFailures() prometheus.Counter {
	RegisterMetrics()
	return judgeFailuresTotal
}

// AggregationFailures exposes the aggregation fallback counter.
func AggregationFailures() prometheus.Counter {
	RegisterMetrics()
	return aggregationFailuresTotal
}

// UploadRejected exposes the rejected upload counter.
func UploadRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadRejectedTotal
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

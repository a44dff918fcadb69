// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "voicenote_router"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Pipeline metrics
	PipelineRunsTotal prometheus.Counter
	PipelineActive    prometheus.Gauge
	PipelineSuccess   prometheus.Counter
	PipelineFailed    prometheus.Counter
	PipelineDuration  prometheus.Histogram

	// Stage metrics (transcription, classification, routing)
	StageLatency *prometheus.HistogramVec
	StageErrors  *prometheus.CounterVec

	// Transcription metrics
	TranscriptsEmpty   prometheus.Counter
	AudioBytesReceived prometheus.Counter

	// Classification metrics
	DecisionsRejected prometheus.Counter

	// Routing metrics
	RoutingBranches   *prometheus.CounterVec
	FolderResolutions *prometheus.CounterVec

	// Store metrics
	StoreOpLatency *prometheus.HistogramVec
	StoreOpErrors  *prometheus.CounterVec

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		PipelineRunsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Total number of pipeline runs started",
		}),
		PipelineActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_active",
			Help:      "Number of currently running pipeline invocations",
		}),
		PipelineSuccess: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_success_total",
			Help:      "Total number of pipeline runs that committed routing",
		}),
		PipelineFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_failed_total",
			Help:      "Total number of pipeline runs that failed",
		}),
		PipelineDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "End-to-end pipeline duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}),

		StageLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_latency_seconds",
			Help:      "Per-stage processing latency in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"stage"}),
		StageErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_errors_total",
			Help:      "Total number of stage failures",
		}, []string{"stage"}),

		TranscriptsEmpty: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcripts_empty_total",
			Help:      "Total number of recordings that transcribed to empty text",
		}),
		AudioBytesReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_bytes_received_total",
			Help:      "Total audio bytes received for transcription",
		}),

		DecisionsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_rejected_total",
			Help:      "Total number of classification payloads rejected as malformed",
		}),

		RoutingBranches: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "routing_branches_total",
			Help:      "Total number of committed routing branches",
		}, []string{"kind", "action"}),
		FolderResolutions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "folder_resolutions_total",
			Help:      "Total number of folder resolutions",
		}, []string{"outcome"}),

		StoreOpLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_op_latency_seconds",
			Help:      "Collection store operation latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"collection", "op"}),
		StoreOpErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_op_errors_total",
			Help:      "Total number of collection store operation errors",
		}, []string{"collection", "op"}),

		KafkaPublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),
	}
}

// RecordPipelineStart records a pipeline run starting.
func (m *Metrics) RecordPipelineStart() {
	m.PipelineRunsTotal.Inc()
	m.PipelineActive.Inc()
}

// RecordPipelineEnd records a pipeline run ending.
func (m *Metrics) RecordPipelineEnd(success bool, durationSeconds float64) {
	m.PipelineActive.Dec()
	m.PipelineDuration.Observe(durationSeconds)
	if success {
		m.PipelineSuccess.Inc()
	} else {
		m.PipelineFailed.Inc()
	}
}

// RecordStage records one pipeline stage completing (or failing).
func (m *Metrics) RecordStage(stage string, err error, latencySeconds float64) {
	m.StageLatency.WithLabelValues(stage).Observe(latencySeconds)
	if err != nil {
		m.StageErrors.WithLabelValues(stage).Inc()
	}
}

// RecordAudioReceived records audio bytes handed to the transcription stage.
func (m *Metrics) RecordAudioReceived(bytes int) {
	m.AudioBytesReceived.Add(float64(bytes))
}

// RecordEmptyTranscript records a recording that produced no text.
func (m *Metrics) RecordEmptyTranscript() {
	m.TranscriptsEmpty.Inc()
}

// RecordDecisionRejected records a malformed classification payload.
func (m *Metrics) RecordDecisionRejected() {
	m.DecisionsRejected.Inc()
}

// RecordRoutingBranch records which routing branch committed.
func (m *Metrics) RecordRoutingBranch(kind, action string) {
	m.RoutingBranches.WithLabelValues(kind, action).Inc()
}

// RecordFolderResolution records a folder lookup outcome ("hit" or "created").
func (m *Metrics) RecordFolderResolution(outcome string) {
	m.FolderResolutions.WithLabelValues(outcome).Inc()
}

// RecordStoreOp records a collection store operation.
func (m *Metrics) RecordStoreOp(collection, op string, err error, latencySeconds float64) {
	m.StoreOpLatency.WithLabelValues(collection, op).Observe(latencySeconds)
	if err != nil {
		m.StoreOpErrors.WithLabelValues(collection, op).Inc()
	}
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}

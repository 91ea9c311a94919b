package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for a notebolt process.
// Nothing is served over HTTP; the registry is dumped to a node-exporter
// textfile on exit.
type Metrics struct {
	registry *prometheus.Registry

	// Upload metrics
	Uploads         prometheus.Counter
	UploadsRejected *prometheus.CounterVec
	AudioDuration   prometheus.Histogram

	// Transcription metrics
	Transcriptions        *prometheus.CounterVec
	TranscriptionDuration prometheus.Histogram

	// Generation metrics
	Generations        *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec
	GeneratedChars     prometheus.Histogram

	// Export metrics
	Exports *prometheus.CounterVec
}

// New creates all metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		Uploads: factory.NewCounter(prometheus.CounterOpts{
			Name: "notebolt_uploads_total",
			Help: "Total number of audio uploads accepted for processing",
		}),
		UploadsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "notebolt_uploads_rejected_total",
			Help: "Total number of uploads rejected before transcription",
		}, []string{"reason"}),
		AudioDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "notebolt_audio_duration_seconds",
			Help:    "Duration of decoded lecture audio",
			Buckets: prometheus.ExponentialBuckets(60, 2, 8), // 1m to ~2h
		}),

		Transcriptions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "notebolt_transcriptions_total",
			Help: "Total number of transcription attempts",
		}, []string{"result"}),
		TranscriptionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "notebolt_transcription_duration_seconds",
			Help:    "Time spent transcribing one upload",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~34m
		}),

		Generations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "notebolt_generations_total",
			Help: "Total number of language model generations",
		}, []string{"kind", "result"}),
		GenerationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "notebolt_generation_duration_seconds",
			Help:    "Time from request to the last streamed fragment",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10), // 0.5s to ~4m
		}, []string{"kind"}),
		GeneratedChars: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "notebolt_generated_characters",
			Help:    "Length of generated notes and answers",
			Buckets: prometheus.ExponentialBuckets(256, 2, 8),
		}),

		Exports: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "notebolt_exports_total",
			Help: "Total number of exported artifacts",
		}, []string{"format", "result"}),
	}
}

// Result maps an error to the "result" label value.
func Result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// WriteTextfile writes the current values in the text exposition format,
// atomically, for the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

// Gatherer exposes the registry, mainly for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// Package metrics exposes batch statistics in the Prometheus text format,
// written to a file for the node exporter textfile collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bnema/shrink/internal/domain"
	"github.com/bnema/shrink/internal/port"
)

type Recorder struct {
	registry *prometheus.Registry
	path     string

	filesProcessed     *prometheus.CounterVec
	fileDuration       *prometheus.HistogramVec
	bytesRead          prometheus.Counter
	bytesWritten       prometheus.Counter
	lastRunTimestamp   prometheus.Gauge
	lastRunDuration    prometheus.Gauge
	lastRunFailedFiles prometheus.Gauge
}

// NewRecorder builds a Recorder on its own registry. Flush writes to path;
// an empty path makes Flush a no-op.
func NewRecorder(path string) *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		path:     path,
		filesProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shrink_files_processed_total",
			Help: "Files processed, by media class and outcome",
		}, []string{"class", "outcome"}),
		fileDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shrink_file_processing_duration_seconds",
			Help:    "Time spent transcoding a single file",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900, 3600},
		}, []string{"class"}),
		bytesRead: factory.NewCounter(prometheus.CounterOpts{
			Name: "shrink_input_bytes_total",
			Help: "Size of successfully transcoded source files",
		}),
		bytesWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "shrink_output_bytes_total",
			Help: "Size of written output files",
		}),
		lastRunTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "shrink_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		}),
		lastRunDuration: factory.NewGauge(prometheus.GaugeOpts{
			Name: "shrink_last_run_duration_seconds",
			Help: "Wall time of the last run",
		}),
		lastRunFailedFiles: factory.NewGauge(prometheus.GaugeOpts{
			Name: "shrink_last_run_failed_files",
			Help: "Files that failed in the last run",
		}),
	}
}

func (r *Recorder) ObserveFile(res domain.ProcessingResult) {
	r.filesProcessed.WithLabelValues(string(res.Class), string(res.Outcome)).Inc()
	if res.Outcome != domain.OutcomeSuccess {
		return
	}
	r.fileDuration.WithLabelValues(string(res.Class)).Observe(res.Duration.Seconds())
	r.bytesRead.Add(float64(res.InputBytes))
	r.bytesWritten.Add(float64(res.OutputBytes))
}

func (r *Recorder) ObserveRun(s domain.Summary) {
	r.lastRunTimestamp.SetToCurrentTime()
	r.lastRunDuration.Set(s.Elapsed.Seconds())
	r.lastRunFailedFiles.Set(float64(s.Failed))
}

// Flush atomically rewrites the textfile.
func (r *Recorder) Flush() error {
	if r.path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(r.path, r.registry)
}

var _ port.BatchMetrics = (*Recorder)(nil)

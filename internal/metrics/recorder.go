// Package metrics records run and phase metrics on a private Prometheus
// registry and writes them in the textfile collector format.
package metrics

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/specialistvlad/algoharness/internal/algo"
)

// Recorder implements algo.Observer.
type Recorder struct {
	registry      *prometheus.Registry
	runs          *prometheus.CounterVec
	phaseDuration *prometheus.HistogramVec
	modelsLoaded  prometheus.Gauge
}

var _ algo.Observer = (*Recorder)(nil)

// New creates a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "algoharness",
			Name:      "runs_total",
			Help:      "Harness commands by outcome.",
		}, []string{"command", "status"}),
		phaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "algoharness",
			Name:      "phase_duration_seconds",
			Help:      "Time spent reaching each phase of a cycle.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"command", "phase"}),
		modelsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "algoharness",
			Name:      "models_loaded",
			Help:      "Models loaded by the last cycle.",
		}),
	}
	r.registry.MustRegister(r.runs, r.phaseDuration, r.modelsLoaded)
	return r
}

// Registry exposes the private registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// PhaseReached observes the time a command took to reach phase.
func (r *Recorder) PhaseReached(_ context.Context, command string, phase algo.Phase, elapsed time.Duration) {
	r.phaseDuration.WithLabelValues(command, phase.String()).Observe(elapsed.Seconds())
}

// ModelsLoaded records how many pretrained models the last train loaded.
func (r *Recorder) ModelsLoaded(_ context.Context, n int) {
	r.modelsLoaded.Set(float64(n))
}

// RunFinished counts one command with its outcome.
func (r *Recorder) RunFinished(command string, err error) {
	status := "succeeded"
	if err != nil {
		status = "failed"
	}
	r.runs.WithLabelValues(command, status).Inc()
}

// WriteTextfile writes the registry to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create metrics directory: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}

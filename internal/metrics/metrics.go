// Package metrics exports per-file reconciliation figures in the Prometheus
// text format, for pickup by a node_exporter textfile collector.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/agentstation/catmatch/pkg/constants"
	"github.com/agentstation/catmatch/pkg/evaluate"
)

// Recorder holds the gauges of one report run on a private registry.
type Recorder struct {
	registry   *prometheus.Registry
	rows       *prometheus.GaugeVec
	matches    *prometheus.GaugeVec
	mismatches *prometheus.GaugeVec
	rate       *prometheus.GaugeVec
	files      prometheus.Gauge
	lastRun    prometheus.Gauge
}

// NewRecorder registers the run gauges. runID is attached as a constant label.
func NewRecorder(runID string) *Recorder {
	constLabels := prometheus.Labels{}
	if runID != "" {
		constLabels["run_id"] = runID
	}
	gaugeVec := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   constants.MetricsNamespace,
			Name:        name,
			Help:        help,
			ConstLabels: constLabels,
		}, []string{"file"})
	}

	r := &Recorder{
		registry:   prometheus.NewRegistry(),
		rows:       gaugeVec("rows_total", "Rows compared in the file."),
		matches:    gaugeVec("matches_total", "Rows whose categories agree."),
		mismatches: gaugeVec("mismatches_total", "Rows whose categories disagree."),
		rate:       gaugeVec("match_rate", "Share of compared rows that agree."),
		files: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   constants.MetricsNamespace,
			Name:        "files_evaluated",
			Help:        "Input files evaluated by the run.",
			ConstLabels: constLabels,
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   constants.MetricsNamespace,
			Name:        "last_run_timestamp_seconds",
			Help:        "Unix time the run finished.",
			ConstLabels: constLabels,
		}),
	}
	r.registry.MustRegister(r.rows, r.matches, r.mismatches, r.rate, r.files, r.lastRun)
	return r
}

// Observe records the figures of one evaluated file.
func (r *Recorder) Observe(res evaluate.Result) {
	r.rows.WithLabelValues(res.FileName).Set(float64(res.Total))
	r.matches.WithLabelValues(res.FileName).Set(float64(res.Matches))
	r.mismatches.WithLabelValues(res.FileName).Set(float64(res.Mismatches))
	r.rate.WithLabelValues(res.FileName).Set(res.MatchRate)
	r.files.Inc()
}

// Finish stamps the completion time.
func (r *Recorder) Finish() {
	r.lastRun.SetToCurrentTime()
}

// WriteTextfile writes every gauge to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

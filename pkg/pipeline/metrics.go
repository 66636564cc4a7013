package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/SammyJoBron/Narrative-Abilities-of-Hearing-Impaired-Children/pkg/data"
	"github.com/SammyJoBron/Narrative-Abilities-of-Hearing-Impaired-Children/pkg/dataprep"
)

// Metrics records one batch run on its own registry so it can be written as a
// node-exporter textfile when the run ends. A nil *Metrics records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	stageDuration *prometheus.GaugeVec
	transforms    *prometheus.CounterVec
	rows          *prometheus.GaugeVec
	lastSuccess   prometheus.Gauge
}

// NewMetrics registers the pipeline collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		stageDuration: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "narrative_stage_duration_seconds",
			Help: "Wall time of the last run of each pipeline stage.",
		}, []string{"stage"}),
		transforms: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "narrative_transform_choices_total",
			Help: "Variables assigned each transform by the skew minimiser.",
		}, []string{"transform"}),
		rows: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "narrative_rows_total",
			Help: "Subjects in the dataset and in each group view.",
		}, []string{"view"}),
		lastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Name: "narrative_last_success_timestamp_seconds",
			Help: "Unix time the pipeline last finished without error.",
		}),
	}
}

// Registry exposes the collectors, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// WriteTextfile writes every collected metric in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) observeStage(stage data.Stage, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(string(stage)).Set(d.Seconds())
}

func (m *Metrics) observeDecisions(decisions []dataprep.Decision) {
	if m == nil {
		return
	}
	for _, d := range decisions {
		m.transforms.WithLabelValues(d.Chosen.String()).Inc()
	}
}

func (m *Metrics) observeRows(view string, n int) {
	if m == nil {
		return
	}
	m.rows.WithLabelValues(view).Set(float64(n))
}

func (m *Metrics) succeeded(at time.Time) {
	if m == nil {
		return
	}
	m.lastSuccess.Set(float64(at.Unix()))
}

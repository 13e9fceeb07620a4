// Package metrics exposes a splash run as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/agbru/splashseq/internal/sequence"
)

// SequenceMetrics is a sequence.Observer that counts transitions.
type SequenceMetrics struct {
	transitions *prometheus.CounterVec
	phase       prometheus.Gauge
	phaseOffset *prometheus.GaugeVec
	wordTicks   prometheus.Counter
	completions prometheus.Counter
	flagWrites  *prometheus.CounterVec
}

// NewSequenceMetrics builds unregistered collectors.
func NewSequenceMetrics() *SequenceMetrics {
	return &SequenceMetrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "splash_phase_transitions_total",
			Help: "Phase transitions, by source and target phase.",
		}, []string{"from", "to"}),
		phase: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "splash_phase",
			Help: "Ordinal of the current phase.",
		}),
		phaseOffset: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "splash_phase_offset_seconds",
			Help: "Offset from activation at which each phase was entered.",
		}, []string{"phase"}),
		wordTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "splash_word_ticks_total",
			Help: "Headline rotation ticks.",
		}),
		completions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "splash_rotation_completions_total",
			Help: "Completed headline rotation passes.",
		}),
		flagWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "splash_flag_writes_total",
			Help: "Overlay flag writes, by flag and value.",
		}, []string{"flag", "value"}),
	}
}

// Register adds every collector to reg.
func (m *SequenceMetrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.transitions, m.phase, m.phaseOffset, m.wordTicks, m.completions, m.flagWrites} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// OnStateChange records one state write.
func (m *SequenceMetrics) OnStateChange(prev, next sequence.State) {
	if prev.Phase != next.Phase {
		m.transitions.WithLabelValues(prev.Phase.String(), next.Phase.String()).Inc()
		m.phase.Set(float64(next.Phase))
		m.phaseOffset.WithLabelValues(next.Phase.String()).Set(next.At.Seconds())
	}
	if prev.Words != next.Words {
		m.wordTicks.Inc()
		if next.Words.Done() && !prev.Words.Done() {
			m.completions.Inc()
		}
	}
	if prev.CallOverlayVisible != next.CallOverlayVisible {
		m.flagWrites.WithLabelValues(sequence.FlagCallOverlay.String(), boolLabel(next.CallOverlayVisible)).Inc()
	}
	if prev.GatherComplete != next.GatherComplete {
		m.flagWrites.WithLabelValues(sequence.FlagGatherComplete.String(), boolLabel(next.GatherComplete)).Inc()
	}
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

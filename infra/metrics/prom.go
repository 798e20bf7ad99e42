package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/sectionfeed/core/metrics"
)

// PromSink records pipeline runs in Prometheus metrics.
type PromSink struct {
	runs        *prometheus.CounterVec
	runDuration *prometheus.HistogramVec
	lastRun     *prometheus.GaugeVec
	sections    *prometheus.CounterVec
	items       *prometheus.GaugeVec
	transitions *prometheus.CounterVec
}

// NewPromSink registers pipeline metrics on the default Prometheus registerer.
// The /metrics endpoint is served separately by StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered by an earlier sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sectionfeed_runs_total",
			Help: "Total number of pipeline runs",
		}, []string{"outcome", "error_kind"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sectionfeed_run_duration_seconds",
			Help:    "Duration of a pipeline run from fetch to projection",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
		lastRun: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sectionfeed_last_run_timestamp_seconds",
			Help: "Start time of the most recent run per outcome",
		}, []string{"outcome"}),
		sections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sectionfeed_sections_total",
			Help: "Sections decoded or projected",
		}, []string{"section_id", "phase", "outcome"}),
		items: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sectionfeed_section_items",
			Help: "Display items produced by the last projection of a section",
		}, []string{"section_id"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sectionfeed_state_transitions_total",
			Help: "Pipeline state transitions",
		}, []string{"to"}),
	}
	var err error
	if s.runs, err = register(reg, s.runs); err != nil {
		return nil, err
	}
	if s.runDuration, err = register(reg, s.runDuration); err != nil {
		return nil, err
	}
	if s.lastRun, err = register(reg, s.lastRun); err != nil {
		return nil, err
	}
	if s.sections, err = register(reg, s.sections); err != nil {
		return nil, err
	}
	if s.items, err = register(reg, s.items); err != nil {
		return nil, err
	}
	if s.transitions, err = register(reg, s.transitions); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordRun counts the run and observes its duration.
func (s *PromSink) RecordRun(ev coremetrics.RunEvent) error {
	s.runs.WithLabelValues(ev.Outcome, ev.ErrorKind).Inc()
	s.runDuration.WithLabelValues(ev.Outcome).Observe(ev.Duration.Seconds())
	if !ev.Time.IsZero() {
		s.lastRun.WithLabelValues(ev.Outcome).Set(float64(ev.Time.Unix()))
	}
	return nil
}

// RecordSection counts section events. Successful projections also update
// the item gauge.
func (s *PromSink) RecordSection(ev coremetrics.SectionEvent) error {
	id := strconv.Itoa(ev.SectionID)
	s.sections.WithLabelValues(id, ev.Phase, ev.Outcome).Inc()
	if ev.Phase == coremetrics.PhaseProject && ev.Outcome == coremetrics.OutcomeOK {
		s.items.WithLabelValues(id).Set(float64(ev.Items))
	}
	return nil
}

// RecordTransition counts state changes by target state.
func (s *PromSink) RecordTransition(ev coremetrics.TransitionEvent) error {
	s.transitions.WithLabelValues(ev.To).Inc()
	return nil
}

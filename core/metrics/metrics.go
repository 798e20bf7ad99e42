package metrics

import "time"

// Outcome values used in events.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// RunEvent summarises one pipeline run.
type RunEvent struct {
	RunID     string
	Outcome   string
	ErrorKind string
	Sections  int
	Duration  time.Duration
	Time      time.Time
}

// Sink records pipeline runs for observability purposes.
type Sink interface {
	RecordRun(ev RunEvent) error
}

// Section phases.
const (
	PhaseDecode  = "decode"
	PhaseProject = "project"
)

// SectionEvent records the decode or projection of one section.
type SectionEvent struct {
	RunID     string
	SectionID int
	Phase     string
	Items     int
	Outcome   string
	ErrorKind string
	Duration  time.Duration
	Time      time.Time
}

// SectionRecorder is implemented by sinks able to record per-section events.
type SectionRecorder interface {
	RecordSection(ev SectionEvent) error
}

// TransitionEvent records a pipeline state change.
type TransitionEvent struct {
	RunID string
	From  string
	To    string
	Time  time.Time
}

// TransitionRecorder is implemented by sinks able to record state changes.
type TransitionRecorder interface {
	RecordTransition(ev TransitionEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordRun(RunEvent) error               { return nil }
func (NopSink) RecordSection(SectionEvent) error       { return nil }
func (NopSink) RecordTransition(TransitionEvent) error { return nil }

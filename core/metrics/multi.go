package metrics

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRun forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordRun(ev RunEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordRun(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordSection forwards section events to sinks that support them.
func (m *MultiSink) RecordSection(ev SectionEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(SectionRecorder); ok {
			if err := rec.RecordSection(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordTransition forwards state changes to sinks that support them.
func (m *MultiSink) RecordTransition(ev TransitionEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(TransitionRecorder); ok {
			if err := rec.RecordTransition(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

package metrics

import (
	"fmt"

	"github.com/kilianp07/sectionfeed/core/factory"
)

var sinkRegistry = factory.NewRegistry[Sink]()

// RegisterMetricsSink adds a sink factory under name. Built-in sinks are
// registered by infra/metrics.
func RegisterMetricsSink(name string, f factory.Factory[Sink]) error {
	return sinkRegistry.Register(name, f)
}

// SinkTypes lists the registered sink names.
func SinkTypes() []string { return sinkRegistry.Names() }

// NewMetricsSink builds the configured sinks. No config yields a NopSink,
// one config its sink alone, several a MultiSink. When a sink fails to
// build, the ones already built are closed.
func NewMetricsSink(cfgs []factory.ModuleConfig) (Sink, error) {
	switch len(cfgs) {
	case 0:
		return NopSink{}, nil
	case 1:
		return sinkRegistry.Create(cfgs[0])
	}
	sinks := make([]Sink, 0, len(cfgs))
	for i, c := range cfgs {
		s, err := sinkRegistry.Create(c)
		if err != nil {
			closeAll(sinks)
			return nil, fmt.Errorf("metrics sink %d: %w", i, err)
		}
		sinks = append(sinks, s)
	}
	return NewMultiSink(sinks...), nil
}

func closeAll(sinks []Sink) {
	for _, s := range sinks {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}

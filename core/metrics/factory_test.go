package metrics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/sectionfeed/core/factory"
	"github.com/kilianp07/sectionfeed/core/metrics"
	_ "github.com/kilianp07/sectionfeed/infra/metrics"
)

func TestSinkTypes_Builtins(t *testing.T) {
	types := metrics.SinkTypes()
	assert.Contains(t, types, "nop")
	assert.Contains(t, types, "prometheus")
	assert.Contains(t, types, "influx")
}

func TestRegisterMetricsSink_Duplicate(t *testing.T) {
	err := metrics.RegisterMetricsSink("nop", func(map[string]any) (metrics.Sink, error) {
		return metrics.NopSink{}, nil
	})
	assert.ErrorIs(t, err, factory.ErrDuplicateModule)
}

func TestNewMetricsSink_Unknown(t *testing.T) {
	_, err := metrics.NewMetricsSink([]factory.ModuleConfig{{Type: "statsd"}})
	assert.ErrorIs(t, err, factory.ErrUnknownModule)

	_, err = metrics.NewMetricsSink([]factory.ModuleConfig{{Type: "nop"}, {Type: "statsd"}})
	assert.ErrorIs(t, err, factory.ErrUnknownModule)
}

func TestNewMetricsSink_Empty(t *testing.T) {
	s, err := metrics.NewMetricsSink(nil)
	require.NoError(t, err)
	assert.IsType(t, metrics.NopSink{}, s)
}

// The prometheus sink needs no settings and records every event kind the
// pipeline emits. Building it twice reuses the collectors on the default
// registerer.
func TestNewMetricsSink_Prometheus(t *testing.T) {
	cfg := []factory.ModuleConfig{{Type: "prometheus"}}
	first, err := metrics.NewMetricsSink(cfg)
	require.NoError(t, err)
	second, err := metrics.NewMetricsSink(cfg)
	require.NoError(t, err)

	for _, s := range []metrics.Sink{first, second} {
		assert.Implements(t, (*metrics.SectionRecorder)(nil), s)
		assert.Implements(t, (*metrics.TransitionRecorder)(nil), s)
		assert.NoError(t, s.RecordRun(metrics.RunEvent{RunID: "r1", Outcome: metrics.OutcomeOK, Sections: 2}))
	}
}

func TestNewMetricsSink_Multi(t *testing.T) {
	s, err := metrics.NewMetricsSink([]factory.ModuleConfig{{Type: "nop"}, {Type: "prometheus"}})
	require.NoError(t, err)
	m, ok := s.(*metrics.MultiSink)
	require.True(t, ok, "got %T", s)
	assert.Len(t, m.Sinks, 2)
	assert.NoError(t, m.RecordRun(metrics.RunEvent{RunID: "r2", Outcome: metrics.OutcomeFailed, ErrorKind: "fetch_failed"}))
}

type closingSink struct {
	metrics.NopSink
	closed bool
}

func (c *closingSink) Close() { c.closed = true }

func TestNewMetricsSink_ClosesBuiltOnError(t *testing.T) {
	built := &closingSink{}
	require.NoError(t, metrics.RegisterMetricsSink("closing", func(map[string]any) (metrics.Sink, error) {
		return built, nil
	}))
	_, err := metrics.NewMetricsSink([]factory.ModuleConfig{{Type: "closing"}, {Type: "statsd"}})
	require.ErrorIs(t, err, factory.ErrUnknownModule)
	assert.True(t, built.closed)
}

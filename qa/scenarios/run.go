package scenarios

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/sectionfeed/app/plugins"
	"github.com/kilianp07/sectionfeed/core/configurator"
	"github.com/kilianp07/sectionfeed/core/pipeline"
	"github.com/kilianp07/sectionfeed/core/section"
	"github.com/kilianp07/sectionfeed/infra/logger"
	"github.com/kilianp07/sectionfeed/infra/metrics"
)

func RunScenario(t *testing.T, sc *Scenario) {
	t.Helper()
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	cfgs, err := plugins.Providers(sc.Providers)
	require.NoError(t, err)
	registry := configurator.NewRegistry()
	for _, c := range cfgs {
		require.NoError(t, registry.Register(c))
	}

	payload := []byte(sc.Payload)
	fetch := pipeline.FetcherFunc(func(context.Context) ([]byte, error) { return payload, nil })
	p := pipeline.New(registry, fetch, pipeline.WithMetrics(sink), pipeline.WithLogger(logger.NopLogger{}))

	res, err := p.Run(context.Background())
	series, gerr := testutil.GatherAndCount(reg, "sectionfeed_runs_total")
	require.NoError(t, gerr)
	assert.Equal(t, 1, series)

	if sc.Failure() {
		require.Error(t, err, "scenario %s", sc.Name)
		assert.Equal(t, sc.Expected.ErrorKind, section.KindOf(err).String())
		if sc.Expected.SectionID != 0 {
			var se *section.Error
			require.True(t, errors.As(err, &se))
			assert.Equal(t, sc.Expected.SectionID, se.SectionID)
		}
		assert.Nil(t, res.Sections)
		assert.Equal(t, pipeline.Failed, p.State())
		return
	}

	require.NoError(t, err, "scenario %s", sc.Name)
	assert.Equal(t, pipeline.Done, p.State())
	require.Len(t, res.Sections, len(sc.Expected.Sections))
	for i, want := range sc.Expected.Sections {
		got := res.Sections[i]
		assert.Equal(t, want.Description, got.Description)
		contents := make([]string, len(got.Contents))
		for j, c := range got.Contents {
			contents[j] = c.Content
		}
		if len(want.Contents) == 0 {
			assert.Empty(t, contents)
			continue
		}
		assert.Equal(t, want.Contents, contents)
	}
}

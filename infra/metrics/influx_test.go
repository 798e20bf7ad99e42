package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/sectionfeed/core/metrics"
)

type lineRecorder struct {
	mu     sync.Mutex
	bodies []string
}

func (l *lineRecorder) handler(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	l.mu.Lock()
	l.bodies = append(l.bodies, strings.TrimSpace(string(data)))
	l.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (l *lineRecorder) lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.bodies...)
}

func newInfluxTestSink(t *testing.T) (*InfluxSink, *lineRecorder) {
	t.Helper()
	rec := &lineRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(rec.handler))
	t.Cleanup(srv.Close)
	sink := NewInfluxSink(InfluxConfig{URL: srv.URL, Token: "token", Org: "org", Bucket: "bucket"})
	t.Cleanup(sink.Close)
	return sink, rec
}

func lineProtocol(p *write.Point) string {
	return strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
}

func TestInfluxSink_RecordRun(t *testing.T) {
	sink, rec := newInfluxTestSink(t)
	now := time.Now()
	err := sink.RecordRun(coremetrics.RunEvent{
		RunID:     "r1",
		Outcome:   coremetrics.OutcomeFailed,
		ErrorKind: "missing_configurator",
		Duration:  1500 * time.Microsecond,
		Time:      now,
	})
	require.NoError(t, err)

	p := write.NewPointWithMeasurement("pipeline_run").
		AddTag("run_id", "r1").
		AddTag("outcome", "failed").
		AddTag("error_kind", "missing_configurator").
		AddField("sections", 0).
		AddField("duration_ms", 1.5).
		SetTime(now)
	assert.Equal(t, []string{lineProtocol(p)}, rec.lines())
}

func TestInfluxSink_RecordSection(t *testing.T) {
	sink, rec := newInfluxTestSink(t)
	now := time.Now()
	err := sink.RecordSection(coremetrics.SectionEvent{
		RunID:     "r1",
		SectionID: 321,
		Phase:     coremetrics.PhaseProject,
		Items:     2,
		Outcome:   coremetrics.OutcomeOK,
		Duration:  2 * time.Millisecond,
		Time:      now,
	})
	require.NoError(t, err)

	p := write.NewPointWithMeasurement("pipeline_section").
		AddTag("run_id", "r1").
		AddTag("section_id", "321").
		AddTag("phase", "project").
		AddTag("outcome", "ok").
		AddField("items", 2).
		AddField("duration_ms", 2.0).
		SetTime(now)
	assert.Equal(t, []string{lineProtocol(p)}, rec.lines())
}

func TestInfluxSink_RecordTransition(t *testing.T) {
	sink, rec := newInfluxTestSink(t)
	now := time.Now()
	require.NoError(t, sink.RecordTransition(coremetrics.TransitionEvent{RunID: "r1", From: "idle", To: "fetching", Time: now}))

	lines := rec.lines()
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "pipeline_transition,"), lines[0])
	assert.Contains(t, lines[0], "to=fetching")
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(InfluxConfig{URL: srv.URL + "/api/v2/write", Token: "tok", Org: "org", Bucket: "bucket"})
	_, isInflux := sink.(*InfluxSink)
	assert.False(t, isInflux, "expected NopSink on failing health check")
	assert.True(t, called, "health endpoint not called")
}

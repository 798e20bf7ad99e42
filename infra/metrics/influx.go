package metrics

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/sectionfeed/core/metrics"
	"github.com/kilianp07/sectionfeed/infra/logger"
)

// InfluxConfig locates the InfluxDB bucket receiving pipeline events.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes pipeline events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a NopSink
// if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.Sink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordRun writes one pipeline_run point.
func (s *InfluxSink) RecordRun(ev coremetrics.RunEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("pipeline_run").
		AddTag("run_id", ev.RunID).
		AddTag("outcome", ev.Outcome)
	if ev.ErrorKind != "" {
		p = p.AddTag("error_kind", ev.ErrorKind)
	}
	p = p.AddField("sections", ev.Sections).
		AddField("duration_ms", durationMillis(ev.Duration)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSection writes one pipeline_section point.
func (s *InfluxSink) RecordSection(ev coremetrics.SectionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("pipeline_section").
		AddTag("run_id", ev.RunID).
		AddTag("section_id", strconv.Itoa(ev.SectionID)).
		AddTag("phase", ev.Phase).
		AddTag("outcome", ev.Outcome)
	if ev.ErrorKind != "" {
		p = p.AddTag("error_kind", ev.ErrorKind)
	}
	p = p.AddField("items", ev.Items).
		AddField("duration_ms", durationMillis(ev.Duration)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordTransition writes one pipeline_transition point.
func (s *InfluxSink) RecordTransition(ev coremetrics.TransitionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("pipeline_transition").
		AddTag("run_id", ev.RunID).
		AddTag("from", ev.From).
		AddTag("to", ev.To).
		AddField("count", 1).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func durationMillis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kilianp07/sectionfeed/api"
	"github.com/kilianp07/sectionfeed/api/runs"
	"github.com/kilianp07/sectionfeed/api/status"
	"github.com/kilianp07/sectionfeed/app/plugins"
	"github.com/kilianp07/sectionfeed/config"
	"github.com/kilianp07/sectionfeed/core/configurator"
	coremetrics "github.com/kilianp07/sectionfeed/core/metrics"
	coremon "github.com/kilianp07/sectionfeed/core/monitoring"
	"github.com/kilianp07/sectionfeed/core/pipeline"
	"github.com/kilianp07/sectionfeed/core/runlog"
	"github.com/kilianp07/sectionfeed/core/section"
	"github.com/kilianp07/sectionfeed/infra/logger"
	"github.com/kilianp07/sectionfeed/infra/metrics"
	"github.com/kilianp07/sectionfeed/infra/monitoring"
	"github.com/kilianp07/sectionfeed/infra/output"
	"github.com/kilianp07/sectionfeed/internal/eventbus"
)

const flushTimeout = 2 * time.Second

// Service wires a pipeline to its fetcher, outputs, run log, metrics and
// error monitor.
type Service struct {
	Pipeline *pipeline.Pipeline

	fetcher  pipeline.Fetcher
	outputs  *output.MultiOutput
	sink     coremetrics.Sink
	runs     runlog.LogStore
	monitor  coremon.Monitor
	bus      *eventbus.TypedBus[pipeline.Transition]
	log      logger.Logger
	interval time.Duration
	promAddr string
	apiAddr  string
	apiToken string
}

// Option overrides a component built from the configuration.
type Option func(*Service)

// WithInterval sets the delay between runs in Watch.
func WithInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithMonitor replaces the monitor built from the sentry settings.
func WithMonitor(m coremon.Monitor) Option {
	return func(s *Service) {
		if m != nil {
			s.monitor = m
		}
	}
}

// WithMetricsSink replaces the sink built from the metrics settings.
func WithMetricsSink(sink coremetrics.Sink) Option {
	return func(s *Service) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// New creates a Service from the configuration.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	s := &Service{
		log:      logger.New("service"),
		bus:      eventbus.NewTyped[pipeline.Transition](),
		interval: cfg.Pipeline.Interval(),
		promAddr: cfg.Metrics.PrometheusAddr,
		apiAddr:  cfg.API.Addr,
		apiToken: cfg.API.Token,
	}
	for _, o := range opts {
		o(s)
	}

	if s.sink == nil {
		sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
		if err != nil {
			return nil, fmt.Errorf("metrics sink: %w", err)
		}
		s.sink = sink
	}
	if s.monitor == nil {
		mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
		if err != nil {
			return nil, fmt.Errorf("monitor: %w", err)
		}
		s.monitor = mon
	}

	cfgs, err := plugins.Providers(cfg.Pipeline.Providers)
	if err != nil {
		return nil, err
	}
	reg := configurator.NewRegistry()
	for _, c := range cfgs {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("provider %s: %w", c.Name(), err)
		}
	}

	store, err := runlog.Open(cfg.RunLog)
	if err != nil {
		return nil, fmt.Errorf("run log: %w", err)
	}
	s.runs = store

	fetcher, err := plugins.Fetchers.Create(cfg.Fetch)
	if err != nil {
		_ = s.runs.Close()
		return nil, fmt.Errorf("fetcher: %w", err)
	}
	s.fetcher = fetcher

	outs := make([]pipeline.Consumer, 0, len(cfg.Outputs))
	for _, oc := range cfg.Outputs {
		o, err := plugins.Outputs.Create(oc)
		if err != nil {
			_ = output.NewMultiOutput(outs...).Close()
			_ = closeIfCloser(fetcher)
			_ = s.runs.Close()
			return nil, fmt.Errorf("output %s: %w", oc.Type, err)
		}
		outs = append(outs, o)
	}
	s.outputs = output.NewMultiOutput(outs...)

	s.Pipeline = pipeline.New(reg, fetcher,
		pipeline.WithLogger(logger.New("pipeline")),
		pipeline.WithMetrics(s.sink),
		pipeline.WithBus(s.bus),
	)
	return s, nil
}

// RunOnce runs the pipeline, hands the sections to the outputs and records
// the outcome. A failed run is reported to the monitor and nothing reaches
// the outputs.
func (s *Service) RunOnce(ctx context.Context) (pipeline.Result, error) {
	res, err := s.Pipeline.Run(ctx)
	rec := runlog.RunRecord{
		RunID:      res.RunID,
		Timestamp:  res.Started,
		DurationMS: float64(res.Duration) / float64(time.Millisecond),
		Sections:   res.Sections,
	}
	if err != nil {
		rec.Error = err.Error()
		rec.ErrorKind = section.KindOf(err).String()
		var se *section.Error
		if errors.As(err, &se) {
			rec.SectionID = se.SectionID
		}
		s.monitor.CaptureException(err, coremon.RunFailureTags(res.RunID, err))
		s.appendRecord(ctx, rec)
		return res, err
	}
	s.appendRecord(ctx, rec)
	if err := s.outputs.Consume(ctx, res.Sections); err != nil {
		s.log.Errorw("hand-off failed", map[string]any{"run_id": res.RunID, "error": err.Error()})
		return res, fmt.Errorf("hand-off: %w", err)
	}
	return res, nil
}

func (s *Service) appendRecord(ctx context.Context, rec runlog.RunRecord) {
	// the record must survive a cancelled run
	if err := s.runs.Append(context.WithoutCancel(ctx), rec); err != nil {
		s.log.Warnf("append run record: %v", err)
	}
}

// Watch runs the pipeline immediately and then on every interval until ctx
// is canceled. Failed runs are logged and do not stop the loop.
func (s *Service) Watch(ctx context.Context) error {
	done := metrics.StartTransitionCollector(ctx, s.bus, s.sink)
	defer func() { <-done }()
	if s.promAddr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	if s.apiAddr != "" {
		go func() {
			if err := api.Serve(ctx, s.apiAddr, s.Handler()); err != nil {
				s.log.Errorf("api server: %v", err)
			}
		}()
	}

	s.log.Infof("watching every %s", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
			s.log.Warnf("run failed: %v", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Handler serves the HTTP API: GET and POST /api/runs, GET /api/status.
func (s *Service) Handler() http.Handler {
	history := runs.NewHistoryHandler(s.runs, s.apiToken)
	trigger := runs.NewTriggerHandler(s, s.apiToken)
	mux := http.NewServeMux()
	mux.Handle("/api/runs", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			trigger.ServeHTTP(w, r)
			return
		}
		history.ServeHTTP(w, r)
	}))
	mux.Handle("/api/status", status.NewStatusHandler(s.Pipeline))
	return mux
}

// History returns the recorded runs matching q.
func (s *Service) History(ctx context.Context, q runlog.LogQuery) ([]runlog.RunRecord, error) {
	return s.runs.Query(ctx, q)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	var errs []error
	errs = append(errs, closeIfCloser(s.fetcher))
	errs = append(errs, s.outputs.Close())
	errs = append(errs, s.runs.Close())
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	s.monitor.Flush(flushTimeout)
	s.bus.Close()
	return errors.Join(errs...)
}

func closeIfCloser(v any) error {
	switch c := v.(type) {
	case io.Closer:
		return c.Close()
	case interface{ Close() }:
		c.Close()
	}
	return nil
}

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/sectionfeed/core/configurator"
	"github.com/kilianp07/sectionfeed/core/logger"
	"github.com/kilianp07/sectionfeed/core/metrics"
	"github.com/kilianp07/sectionfeed/core/section"
	"github.com/kilianp07/sectionfeed/core/store"
	"github.com/kilianp07/sectionfeed/internal/eventbus"
)

var errNoFetcher = errors.New("pipeline has no fetcher")

// Result describes one run. Sections is nil when the run failed.
type Result struct {
	RunID    string
	Sections []section.DisplaySection
	Started  time.Time
	Duration time.Duration
}

// Pipeline fetches a payload and dispatches its sections to the registered
// configurators.
type Pipeline struct {
	registry *configurator.Registry
	fetcher  Fetcher
	log      logger.Logger
	sink     metrics.Sink
	bus      *eventbus.TypedBus[Transition]
	now      func() time.Time
	newRunID func() string

	runMu sync.Mutex

	mu      sync.RWMutex
	state   State
	runID   string
	lastErr error
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// WithMetrics sets the sink receiving run and section events.
func WithMetrics(s metrics.Sink) Option {
	return func(p *Pipeline) {
		if s != nil {
			p.sink = s
		}
	}
}

// WithBus publishes state transitions on b instead of a private bus.
func WithBus(b *eventbus.TypedBus[Transition]) Option {
	return func(p *Pipeline) {
		if b != nil {
			p.bus = b
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// WithRunIDs overrides the run id generator.
func WithRunIDs(gen func() string) Option {
	return func(p *Pipeline) {
		if gen != nil {
			p.newRunID = gen
		}
	}
}

// New creates a Pipeline over reg using f to obtain payloads. A nil reg
// starts with an empty registry.
func New(reg *configurator.Registry, f Fetcher, opts ...Option) *Pipeline {
	if reg == nil {
		reg = configurator.NewRegistry()
	}
	p := &Pipeline{
		registry: reg,
		fetcher:  f,
		log:      nopLogger{},
		sink:     metrics.NopSink{},
		bus:      eventbus.NewTyped[Transition](),
		now:      time.Now,
		newRunID: uuid.NewString,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Register adds a configurator to the pipeline's registry.
func (p *Pipeline) Register(c configurator.Configurator) error {
	if err := p.registry.Register(c); err != nil {
		return err
	}
	p.log.Debugw("configurator registered", map[string]any{"section_id": c.ID(), "name": c.Name()})
	return nil
}

// Registry returns the registry the pipeline routes through.
func (p *Pipeline) Registry() *configurator.Registry { return p.registry }

// State returns the state of the current or most recent run.
func (p *Pipeline) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// LastError returns the error of the most recent run, nil if it succeeded.
func (p *Pipeline) LastError() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastErr
}

// Subscribe returns a channel receiving every state transition.
func (p *Pipeline) Subscribe() <-chan Transition { return p.bus.Subscribe() }

// Unsubscribe stops delivery to a channel returned by Subscribe.
func (p *Pipeline) Unsubscribe(ch <-chan Transition) { p.bus.Unsubscribe(ch) }

// Run performs one fetch, parse, decode and project cycle. It returns the
// display sections in registration order, or the first error encountered.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	res := Result{RunID: p.newRunID(), Started: p.now()}
	p.begin(res.RunID)
	p.log.Infof("run %s started", res.RunID)

	sections, err := p.run(ctx, res.RunID)
	res.Duration = p.now().Sub(res.Started)
	if err != nil {
		p.fail(res, err)
		return res, err
	}
	res.Sections = sections
	p.moveTo(Done, nil)
	p.record(metrics.RunEvent{
		RunID:    res.RunID,
		Outcome:  metrics.OutcomeOK,
		Sections: len(sections),
		Duration: res.Duration,
		Time:     res.Started,
	})
	p.log.Infof("run %s done: %d sections in %s", res.RunID, len(sections), res.Duration)
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, runID string) ([]section.DisplaySection, error) {
	p.moveTo(Fetching, nil)
	if p.fetcher == nil {
		return nil, section.FetchFailed(errNoFetcher)
	}
	if err := ctx.Err(); err != nil {
		return nil, section.FetchFailed(err)
	}
	data, err := p.fetcher.Fetch(ctx)
	if err != nil {
		return nil, section.FetchFailed(err)
	}

	p.moveTo(Parsing, nil)
	env, err := section.ParseEnvelope(data)
	if err != nil {
		return nil, err
	}

	p.moveTo(Decoding, nil)
	snap := p.registry.Snapshot()
	models := store.New()
	if err := p.decodeAll(runID, snap, env, models); err != nil {
		return nil, err
	}

	p.moveTo(Projecting, nil)
	return p.projectAll(runID, snap, models)
}

func (p *Pipeline) decodeAll(runID string, snap configurator.Snapshot, env section.Envelope, models *store.Store) error {
	for _, raw := range env.Sections {
		c, ok := snap.Lookup(raw.ID)
		if !ok {
			return section.MissingConfigurator(raw.ID)
		}
		start := p.now()
		err := c.Decode(raw, models)
		p.recordSection(runID, raw.ID, metrics.PhaseDecode, 0, start, err)
		if err != nil {
			return err
		}
		p.log.Debugw("section decoded", map[string]any{
			"run_id":     runID,
			"section_id": raw.ID,
			"name":       c.Name(),
			"model":      c.ModelType(),
		})
	}
	return nil
}

func (p *Pipeline) projectAll(runID string, snap configurator.Snapshot, models *store.Store) ([]section.DisplaySection, error) {
	out := make([]section.DisplaySection, 0, snap.Len())
	for _, c := range snap.All() {
		start := p.now()
		ds, err := c.Project(models)
		p.recordSection(runID, c.ID(), metrics.PhaseProject, len(ds.Contents), start, err)
		if err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	return out, nil
}

func (p *Pipeline) begin(runID string) {
	p.mu.Lock()
	p.state = Idle
	p.runID = runID
	p.lastErr = nil
	p.mu.Unlock()
}

func (p *Pipeline) moveTo(next State, err error) {
	p.mu.Lock()
	from := p.state
	if !from.CanTransition(next) {
		p.mu.Unlock()
		panic(fmt.Sprintf("pipeline: invalid transition %s -> %s", from, next))
	}
	p.state = next
	if next == Failed {
		p.lastErr = err
	}
	runID := p.runID
	p.mu.Unlock()
	p.bus.Publish(Transition{RunID: runID, From: from, To: next, Err: err, Time: p.now()})
}

func (p *Pipeline) fail(res Result, err error) {
	p.moveTo(Failed, err)
	kind := section.KindOf(err)
	fields := map[string]any{"run_id": res.RunID, "kind": kind.String(), "error": err.Error()}
	var se *section.Error
	if errors.As(err, &se) && se.SectionID != 0 {
		fields["section_id"] = se.SectionID
	}
	p.log.Errorw("run failed", fields)
	p.record(metrics.RunEvent{
		RunID:     res.RunID,
		Outcome:   metrics.OutcomeFailed,
		ErrorKind: kind.String(),
		Duration:  res.Duration,
		Time:      res.Started,
	})
}

func (p *Pipeline) record(ev metrics.RunEvent) {
	if err := p.sink.RecordRun(ev); err != nil {
		p.log.Warnf("record run metrics: %v", err)
	}
}

func (p *Pipeline) recordSection(runID string, id int, phase string, items int, start time.Time, err error) {
	rec, ok := p.sink.(metrics.SectionRecorder)
	if !ok {
		return
	}
	ev := metrics.SectionEvent{
		RunID:     runID,
		SectionID: id,
		Phase:     phase,
		Items:     items,
		Outcome:   metrics.OutcomeOK,
		Duration:  p.now().Sub(start),
		Time:      start,
	}
	if err != nil {
		ev.Outcome = metrics.OutcomeFailed
		ev.ErrorKind = section.KindOf(err).String()
	}
	if rerr := rec.RecordSection(ev); rerr != nil {
		p.log.Warnf("record section metrics: %v", rerr)
	}
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
func (nopLogger) Errorw(string, map[string]any) {}

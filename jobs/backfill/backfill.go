// Package backfill replays recorded runs into a metrics sink, for example to
// seed a fresh InfluxDB bucket from the run log.
package backfill

import (
	"context"
	"time"

	coremetrics "github.com/kilianp07/sectionfeed/core/metrics"
	"github.com/kilianp07/sectionfeed/core/runlog"
)

// Backfill sends one RunEvent per record matching q and returns how many were
// written. It stops at the first sink error.
func Backfill(ctx context.Context, store runlog.LogStore, sink coremetrics.Sink, q runlog.LogQuery) (int, error) {
	recs, err := store.Query(ctx, q)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, rec := range recs {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if err := sink.RecordRun(Event(rec)); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Event converts a run record to the event the pipeline emitted for it.
func Event(rec runlog.RunRecord) coremetrics.RunEvent {
	ev := coremetrics.RunEvent{
		RunID:    rec.RunID,
		Outcome:  coremetrics.OutcomeOK,
		Sections: len(rec.Sections),
		Duration: time.Duration(rec.DurationMS * float64(time.Millisecond)),
		Time:     rec.Timestamp,
	}
	if rec.Failed() {
		ev.Outcome = coremetrics.OutcomeFailed
		ev.ErrorKind = rec.ErrorKind
		ev.Sections = 0
	}
	return ev
}

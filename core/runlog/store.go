// Package runlog keeps the history of pipeline runs: what each run produced
// or why it failed.
package runlog

import (
	"context"
	"time"

	"github.com/kilianp07/sectionfeed/core/section"
)

// RunRecord captures the outcome of one pipeline run.
type RunRecord struct {
	RunID      string                   `json:"run_id"`
	Timestamp  time.Time                `json:"timestamp"`
	DurationMS float64                  `json:"duration_ms"`
	Sections   []section.DisplaySection `json:"sections,omitempty"`
	Error      string                   `json:"error,omitempty"`
	ErrorKind  string                   `json:"error_kind,omitempty"`
	SectionID  int                      `json:"section_id,omitempty"`
}

// Failed reports whether the run ended with an error.
func (r RunRecord) Failed() bool { return r.Error != "" }

// LogQuery defines filters for retrieving records. Zero values disable a
// filter. Limit keeps the most recent records.
type LogQuery struct {
	Start      time.Time
	End        time.Time
	RunID      string
	FailedOnly bool
	Limit      int
}

// Match reports whether r passes the filters of q. Limit is not applied.
func (q LogQuery) Match(r RunRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.RunID != "" && r.RunID != q.RunID {
		return false
	}
	if q.FailedOnly && !r.Failed() {
		return false
	}
	return true
}

func (q LogQuery) limit(recs []RunRecord) []RunRecord {
	if q.Limit > 0 && len(recs) > q.Limit {
		return recs[len(recs)-q.Limit:]
	}
	return recs
}

// LogStore persists RunRecords and supports querying.
type LogStore interface {
	Append(ctx context.Context, rec RunRecord) error
	Query(ctx context.Context, q LogQuery) ([]RunRecord, error)
	Close() error
}

// NopStore discards records.
type NopStore struct{}

func (NopStore) Append(context.Context, RunRecord) error                { return nil }
func (NopStore) Query(context.Context, LogQuery) ([]RunRecord, error) { return nil, nil }
func (NopStore) Close() error                                          { return nil }

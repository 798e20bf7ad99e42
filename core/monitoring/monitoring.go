// Package monitoring reports failed runs to an error tracker.
package monitoring

import (
	"errors"
	"strconv"
	"time"

	"github.com/kilianp07/sectionfeed/core/section"
)

// Monitor defines methods used for error reporting.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	Flush(timeout time.Duration) bool
}

type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Flush(time.Duration) bool                  { return true }

// RunFailureTags returns the tags attached to the report of a failed run:
// the run id, the error kind and, when known, the offending section.
func RunFailureTags(runID string, err error) map[string]string {
	tags := map[string]string{
		"module": "pipeline",
		"run_id": runID,
		"kind":   section.KindOf(err).String(),
	}
	var se *section.Error
	if errors.As(err, &se) {
		if se.SectionID != 0 {
			tags["section_id"] = strconv.Itoa(se.SectionID)
		}
		if se.Index >= 0 && se.Kind == section.KindMissingSectionID {
			tags["section_index"] = strconv.Itoa(se.Index)
		}
	}
	return tags
}

// Package export renders run history for the history command.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/sectionfeed/core/runlog"
)

// WriteJSON writes the records to w as one JSON array.
func WriteJSON(w io.Writer, recs []runlog.RunRecord) error {
	if recs == nil {
		recs = []runlog.RunRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(recs)
}

// WriteCSV writes one line per run, without the display sections.
func WriteCSV(w io.Writer, recs []runlog.RunRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"run_id", "timestamp", "duration_ms", "outcome", "sections", "error_kind", "section_id", "error"}); err != nil {
		return err
	}
	for _, r := range recs {
		outcome := "ok"
		if r.Failed() {
			outcome = "failed"
		}
		sectionID := ""
		if r.SectionID != 0 {
			sectionID = strconv.Itoa(r.SectionID)
		}
		rec := []string{
			r.RunID,
			r.Timestamp.Format(time.RFC3339Nano),
			strconv.FormatFloat(r.DurationMS, 'f', -1, 64),
			outcome,
			strconv.Itoa(len(r.Sections)),
			r.ErrorKind,
			sectionID,
			r.Error,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteChartHTML renders the run durations as an HTML line chart. Failed
// runs are drawn as a separate series so they stand out.
func WriteChartHTML(w io.Writer, recs []runlog.RunRecord) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Pipeline runs"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Run start"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Duration (ms)"}),
	)

	xAxis := make([]string, 0, len(recs))
	ok := make([]opts.LineData, 0, len(recs))
	failed := make([]opts.LineData, 0, len(recs))
	for _, r := range recs {
		xAxis = append(xAxis, r.Timestamp.Format("2006-01-02 15:04:05"))
		if r.Failed() {
			ok = append(ok, opts.LineData{Value: "-"})
			failed = append(failed, opts.LineData{Value: r.DurationMS, Name: r.ErrorKind})
			continue
		}
		ok = append(ok, opts.LineData{Value: r.DurationMS})
		failed = append(failed, opts.LineData{Value: "-"})
	}
	line.SetXAxis(xAxis).
		AddSeries("ok", ok).
		AddSeries("failed", failed)

	if err := line.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/sectionfeed/config"
	"github.com/kilianp07/sectionfeed/core/runlog"
	"github.com/kilianp07/sectionfeed/pkg/export"
)

var historyOpts struct {
	failed bool
	runID  string
	limit  int
	since  time.Duration
	format string
	chart  string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded pipeline runs",
	RunE:  history,
}

func init() {
	f := historyCmd.Flags()
	f.BoolVar(&historyOpts.failed, "failed", false, "only failed runs")
	f.StringVar(&historyOpts.runID, "run-id", "", "a single run")
	f.IntVar(&historyOpts.limit, "limit", 20, "most recent runs to show, 0 for all")
	f.DurationVar(&historyOpts.since, "since", 0, "only runs newer than this")
	f.StringVar(&historyOpts.format, "format", "json", "output format: json or csv")
	f.StringVar(&historyOpts.chart, "chart", "", "also write an HTML chart to this file")
	rootCmd.AddCommand(historyCmd)
}

func history(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	store, err := runlog.Open(cfg.RunLog)
	if err != nil {
		return err
	}
	defer store.Close()

	q := runlog.LogQuery{
		RunID:      historyOpts.runID,
		FailedOnly: historyOpts.failed,
		Limit:      historyOpts.limit,
	}
	if historyOpts.since > 0 {
		q.Start = time.Now().Add(-historyOpts.since)
	}
	recs, err := store.Query(cmd.Context(), q)
	if err != nil {
		return fmt.Errorf("query run log: %w", err)
	}

	out := cmd.OutOrStdout()
	switch historyOpts.format {
	case "json":
		err = export.WriteJSON(out, recs)
	case "csv":
		err = export.WriteCSV(out, recs)
	default:
		return fmt.Errorf("unknown format %q", historyOpts.format)
	}
	if err != nil {
		return err
	}

	if historyOpts.chart == "" {
		return nil
	}
	f, err := os.Create(historyOpts.chart)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	if err := export.WriteChartHTML(f, recs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

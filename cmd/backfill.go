package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/sectionfeed/config"
	coremetrics "github.com/kilianp07/sectionfeed/core/metrics"
	"github.com/kilianp07/sectionfeed/core/runlog"
	_ "github.com/kilianp07/sectionfeed/infra/metrics"
	"github.com/kilianp07/sectionfeed/jobs/backfill"
)

var backfillSince time.Duration

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Replay recorded runs into the configured metrics sinks",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if len(cfg.Metrics.Sinks) == 0 {
			return errors.New("no metrics sinks configured")
		}
		sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
		if err != nil {
			return err
		}
		if c, ok := sink.(interface{ Close() }); ok {
			defer c.Close()
		}
		store, err := runlog.Open(cfg.RunLog)
		if err != nil {
			return err
		}
		defer store.Close()

		var q runlog.LogQuery
		if backfillSince > 0 {
			q.Start = time.Now().Add(-backfillSince)
		}
		n, err := backfill.Backfill(cmd.Context(), store, sink, q)
		if err != nil {
			return fmt.Errorf("backfill after %d runs: %w", n, err)
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "replayed %d runs\n", n)
		return err
	},
}

func init() {
	backfillCmd.Flags().DurationVar(&backfillSince, "since", 0, "only runs newer than this")
	rootCmd.AddCommand(backfillCmd)
}

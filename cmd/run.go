package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline once and exit",
	RunE:  runOnce,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the pipeline on the configured interval",
	RunE:  watch,
}

func init() {
	rootCmd.AddCommand(runCmd, watchCmd)
}

func runOnce(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := openService()
	if err != nil {
		return err
	}
	defer closeService(svc)
	_, err = svc.RunOnce(ctx)
	return err
}

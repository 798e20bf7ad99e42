package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/sectionfeed/app"
	"github.com/kilianp07/sectionfeed/config"
	"github.com/kilianp07/sectionfeed/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "sectionfeed",
	Short: "Fetch section payloads and dispatch them to providers",
	RunE:  watch,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func watch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := openService()
	if err != nil {
		return err
	}
	defer closeService(svc)
	return svc.Watch(ctx)
}

func openService() (*app.Service, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return app.New(cfg)
}

func closeService(svc *app.Service) {
	if err := svc.Close(); err != nil {
		logger.New("main").Errorf("service close: %v", err)
	}
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/sectionfeed/app/plugins"
	coremetrics "github.com/kilianp07/sectionfeed/core/metrics"
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List the built-in providers, fetchers, outputs and metrics sinks",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		groups := []struct {
			title string
			names []string
		}{
			{"providers", plugins.ProviderNames()},
			{"fetchers", plugins.Fetchers.Names()},
			{"outputs", plugins.Outputs.Names()},
			{"metrics", coremetrics.SinkTypes()},
		}
		for _, g := range groups {
			if _, err := fmt.Fprintf(out, "%s:\n", g.title); err != nil {
				return err
			}
			for _, n := range g.names {
				if _, err := fmt.Fprintf(out, "  %s\n", n); err != nil {
					return err
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pluginsCmd)
}

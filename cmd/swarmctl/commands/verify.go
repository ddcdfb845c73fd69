package commands

import (
	"github.com/spf13/cobra"

	"github.com/halvard/swarmctl/cmd/swarmctl/handlers"
)

// Verify returns the command that inspects an existing cluster without
// changing it.
func Verify() *cobra.Command {
	var opts handlers.UpOptions

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Inspect the cluster without changing anything",
		Long: `Report the cluster's node roster and probe the published service
ports. Verify never issues a state-changing command; a degraded cluster
is reported, not repaired.

Examples:
  swarmctl verify
  swarmctl verify -c production.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Verify(cmd.Context(), opts)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "swarm.yaml", "Path to configuration file")
	cmd.Flags().IntVarP(&opts.Verbosity, "verbosity", "v", 0, "Log verbosity 1-4 (default: from config)")
	cmd.Flags().StringVar(&opts.LogFile, "log-file", "", "Duplicate log output to this file")
	cmd.Flags().BoolVar(&opts.Quiet, "quiet", false, "Suppress remote command output relay")

	return cmd
}

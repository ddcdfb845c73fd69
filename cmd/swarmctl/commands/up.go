package commands

import (
	"github.com/spf13/cobra"

	"github.com/halvard/swarmctl/cmd/swarmctl/handlers"
)

// Up returns the command that converges the hosts into a running cluster.
//
// Optional flags:
//
//	--config, -c:    Path to configuration YAML file (default: swarm.yaml)
//	--verbosity, -v: Log verbosity 1-4, overrides the config file
//	--log-file:      Duplicate all log output to a file
//	--quiet:         Suppress remote command output relay
func Up() *cobra.Command {
	var opts handlers.UpOptions

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Converge all hosts into a running cluster",
		Long: `Converge the configured hosts into a Docker Swarm cluster.

Each run works out what remains to be done and does only that: hosts with
a running engine are not reinstalled, an initialized manager is not
re-initialized, joined workers are not re-joined. Running up against a
healthy cluster is a fast no-op.

Examples:
  # Bootstrap using swarm.yaml in the current directory
  swarmctl up

  # Bootstrap using a specific config file, with debug logging
  swarmctl up -c production.yaml -v 4`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Up(cmd.Context(), opts)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "swarm.yaml", "Path to configuration file")
	cmd.Flags().IntVarP(&opts.Verbosity, "verbosity", "v", 0, "Log verbosity 1-4 (default: from config)")
	cmd.Flags().StringVar(&opts.LogFile, "log-file", "", "Duplicate log output to this file")
	cmd.Flags().BoolVar(&opts.Quiet, "quiet", false, "Suppress remote command output relay")

	return cmd
}

package commands

import (
	"github.com/spf13/cobra"

	"github.com/halvard/swarmctl/cmd/swarmctl/handlers"
)

// Init returns the command that writes a configuration file through the
// interactive wizard.
func Init() *cobra.Command {
	var (
		outputPath string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath, force)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "swarm.yaml", "Where to write the configuration")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}

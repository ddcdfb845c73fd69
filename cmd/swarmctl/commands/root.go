// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing and flag binding. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the swarmctl CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swarmctl",
		Short: "Bootstrap a Docker Swarm cluster over SSH",
	}

	cmd.AddCommand(Init())
	cmd.AddCommand(Up())
	cmd.AddCommand(Verify())
	cmd.AddCommand(Version())

	return cmd
}

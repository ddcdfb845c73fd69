// Package main is the entry point for the swarmctl CLI.
//
// swarmctl converges a set of hand-provisioned hosts into a Docker Swarm
// cluster running a registry, an ingress proxy, and a monitoring stack.
// It is stateless: every run re-derives what remains to be done from the
// hosts themselves, so re-running against a healthy cluster changes
// nothing.
//
// Commands: init, up, verify, version.
//
// For detailed usage information, run:
//
//	swarmctl --help
package main

import (
	"fmt"
	"os"

	"github.com/halvard/swarmctl/cmd/swarmctl/commands"
	"github.com/halvard/swarmctl/internal/bootstrap"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(bootstrap.ExitCode(err))
	}
}

package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/halvard/swarmctl/internal/config"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// runWizard runs the interactive configuration wizard.
	runWizard = config.RunWizard

	// writeConfig writes the wizard result to a file.
	writeConfig = config.WriteYAML
)

// Init runs the configuration wizard and writes the result to a file.
// An existing file is never overwritten without --force.
func Init(ctx context.Context, outputPath string, force bool) error {
	if fileExists(outputPath) && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", outputPath)
	}

	printWelcome()

	result, err := runWizard(ctx)
	if err != nil {
		return err
	}

	if err := writeConfig(result, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, result)
	return nil
}

func printWelcome() {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "swarmctl - Docker Swarm bootstrap")
	fmt.Fprintln(stdout, "=================================")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "This wizard creates a cluster configuration with sensible defaults.")
	fmt.Fprintln(stdout, "The generated YAML lists every option explicitly; edit it any time.")
	fmt.Fprintln(stdout)
}

func printInitSuccess(outputPath string, result *config.WizardResult) {
	workers := "none (manager-only)"
	if result.WorkerHosts != "" {
		workers = result.WorkerHosts
	}

	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Configuration saved!")
	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "  File:      %s\n", outputPath)
	fmt.Fprintf(stdout, "  Manager:   %s (advertising %s)\n", result.ManagerHost, result.AdvertiseAddr)
	fmt.Fprintf(stdout, "  Workers:   %s\n", workers)
	fmt.Fprintf(stdout, "  Autolock:  %t\n", result.Autolock)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Next steps:")
	fmt.Fprintf(stdout, "  swarmctl up -c %s\n", outputPath)
	fmt.Fprintln(stdout)
}

// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic
// and can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/halvard/swarmctl/internal/bootstrap"
	"github.com/halvard/swarmctl/internal/config"
	"github.com/halvard/swarmctl/internal/logging"
	"github.com/halvard/swarmctl/internal/remote"
	"github.com/halvard/swarmctl/internal/sshx"
)

// UpOptions carries the flags shared by up and verify.
type UpOptions struct {
	ConfigPath string
	Verbosity  int
	LogFile    string
	Quiet      bool
}

// Factory function variables - can be replaced in tests for dependency
// injection.
var (
	// loadConfigFile loads and defaults the configuration.
	loadConfigFile = config.LoadFile

	// newDialer opens the SSH transport.
	newDialer = sshx.NewDialer

	// newLogger builds the zerolog sink.
	newLogger = logging.New

	// runPhases drives the bootstrap pipeline.
	runPhases = bootstrap.RunPhases

	// upPhases returns the pipeline the up command runs.
	upPhases = bootstrap.Phases

	// stdout receives rendered summaries.
	stdout io.Writer = os.Stdout
)

// Up converges the configured hosts into a running cluster.
//
// The run is strictly staged: configuration is validated in full before
// any host is contacted, every host's engine comes up before any cluster
// command runs, and the cluster forms before any stack deploys. An
// interrupt stops the run between operations.
func Up(ctx context.Context, opts UpOptions) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, opts, upPhases())
}

// run is the shared load-validate-execute-summarize flow behind up and
// verify.
func run(ctx context.Context, opts UpOptions, phases []bootstrap.Phase) error {
	cfg, unknown, err := loadConfigFile(opts.ConfigPath)
	if err != nil {
		return &bootstrap.ConfigError{Fields: []config.FieldError{
			{Field: opts.ConfigPath, Message: err.Error()},
		}}
	}

	// All field errors accumulate; the operator fixes the file once.
	if fieldErrs := cfg.Validate(); len(fieldErrs) > 0 {
		fmt.Fprint(stdout, renderFieldErrors(fieldErrs))
		return &bootstrap.ConfigError{Fields: fieldErrs}
	}

	verbosity := opts.Verbosity
	if verbosity == 0 {
		verbosity = cfg.LogVerbosity
	}
	logger, closeLog, err := newLogger(logging.Options{Verbosity: verbosity, FilePath: opts.LogFile})
	if err != nil {
		return err
	}
	defer closeLog() //nolint:errcheck

	for _, key := range unknown {
		logger.Warn().Str("key", key).Msg("unknown configuration key ignored")
	}
	for _, warning := range cfg.Warnings() {
		logger.Warn().Msg(warning)
	}

	keyPath, err := config.ExpandHome(cfg.SSHPrivateKeyPath)
	if err != nil {
		return &bootstrap.ConfigError{Fields: []config.FieldError{
			{Field: "ssh_private_key_path", Message: err.Error()},
		}}
	}
	dial, err := newDialer(cfg.SSHUser, keyPath)
	if err != nil {
		return &bootstrap.ConfigError{Fields: []config.FieldError{
			{Field: "ssh_private_key_path", Message: err.Error()},
		}}
	}

	report := bootstrap.NewReport()
	exec := remote.NewExecutor(dial, logging.WithComponent(logger, "remote"), report, opts.Quiet)
	bctx := bootstrap.NewContext(ctx, cfg, exec, logger, report)

	runErr := runPhases(bctx, phases)

	// The summary renders regardless of outcome; a failed run still
	// tells the operator how far it got.
	fmt.Fprint(stdout, renderSummary(cfg, report, runErr))

	if runErr != nil {
		return runErr
	}
	if n := report.Errors(); n > 0 {
		return fmt.Errorf("completed with %d error(s), see summary above", n)
	}
	return nil
}

package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/halvard/swarmctl/internal/config"
	"github.com/halvard/swarmctl/internal/remote"
)

// Exit codes, one per fatal stage. The process exits with the code of the
// first fatal failure.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitConfig    = 2
	ExitTransport = 3
	ExitInstall   = 4
	ExitJoin      = 5
	ExitInterrupt = 130
)

// ConfigError is a fatal pre-remote validation failure.
type ConfigError struct {
	Fields []config.FieldError
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration invalid: %d field error(s)", len(e.Fields))
}

// TransportError means a host could not be reached at all. Fatal for the
// run: every later stage needs every host.
type TransportError struct {
	Host string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("host %s unreachable: %v", e.Host, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// transportError wraps a failed remote result, preserving the original
// error chain so a cancelled dial still maps to the interrupt exit code.
func transportError(host string, r remote.Result) *TransportError {
	err := r.Err
	if err == nil {
		err = errors.New(r.Output)
	}
	return &TransportError{Host: host, Err: err}
}

// InstallError means the engine install ran but the daemon never came up.
type InstallError struct {
	Host   string
	Detail string
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("engine install failed on %s: %s", e.Host, e.Detail)
}

// ConflictError means a host is in a cluster state the bootstrap cannot
// reconcile, such as manager-host membership without the manager role.
type ConflictError struct {
	Host   string
	Detail string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("cluster conflict on %s: %s", e.Host, e.Detail)
}

// JoinTimeoutError means the manager's control port never answered within
// the probe budget. Worded around reachability so it cannot be confused
// with a token rejection.
type JoinTimeoutError struct {
	Endpoint string
	Attempts int
	Err      error
}

func (e *JoinTimeoutError) Error() string {
	return fmt.Sprintf("manager control endpoint %s unreachable after %d probe attempts; workers cannot join an unreachable manager", e.Endpoint, e.Attempts)
}

func (e *JoinTimeoutError) Unwrap() error { return e.Err }

// ClusterError is any other fatal failure during cluster formation: init,
// network creation, token retrieval, a rejected join, or a join that left
// membership inactive.
type ClusterError struct {
	Host      string
	Operation string
	Detail    string
}

func (e *ClusterError) Error() string {
	return fmt.Sprintf("%s failed on %s: %s", e.Operation, e.Host, e.Detail)
}

// ExitCode maps an error to the process exit code of its fatal stage.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, context.Canceled) {
		return ExitInterrupt
	}

	var (
		configErr    *ConfigError
		transportErr *TransportError
		installErr   *InstallError
		conflictErr  *ConflictError
		joinErr      *JoinTimeoutError
		clusterErr   *ClusterError
	)
	switch {
	case errors.As(err, &configErr):
		return ExitConfig
	case errors.As(err, &transportErr):
		return ExitTransport
	case errors.As(err, &installErr):
		return ExitInstall
	case errors.As(err, &conflictErr), errors.As(err, &joinErr), errors.As(err, &clusterErr):
		return ExitJoin
	default:
		return ExitFailure
	}
}

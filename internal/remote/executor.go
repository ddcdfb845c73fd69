// Package remote is the remote execution engine: it runs named operations
// on hosts over the transport, relays output to the log sink, and records
// every outcome for the final report.
package remote

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/halvard/swarmctl/internal/sshx"
)

// Result captures one remote operation's outcome. Immutable once created.
type Result struct {
	Host        string
	Description string
	Command     string
	Success     bool
	Output      string
	ExitCode    int

	// Err is the transport failure, nil when the command ran. Kept as an
	// error so callers can still inspect the chain, e.g. for
	// context.Canceled after an interrupt.
	Err error
}

// Recorder receives every Result as it is produced.
type Recorder interface {
	Record(Result)
}

// Executor runs operations host by host. It never retries; retry policy
// belongs to the callers that own it.
type Executor struct {
	dial       sshx.Dialer
	log        zerolog.Logger
	recorder   Recorder
	quiet      bool
	redactions map[string]string
	comms      map[string]sshx.Communicator
}

// NewExecutor builds an Executor. recorder may be nil. quiet suppresses
// the per-line output relay while still deriving success from exit codes.
func NewExecutor(dial sshx.Dialer, logger zerolog.Logger, recorder Recorder, quiet bool) *Executor {
	return &Executor{
		dial:       dial,
		log:        logger,
		recorder:   recorder,
		quiet:      quiet,
		redactions: map[string]string{},
		comms:      map[string]sshx.Communicator{},
	}
}

// Redact registers a secret so it never reaches the log sink in full.
// Logged occurrences are replaced by display.
func (e *Executor) Redact(secret, display string) {
	if secret != "" {
		e.redactions[secret] = display
	}
}

func (e *Executor) communicator(host string) sshx.Communicator {
	comm, ok := e.comms[host]
	if !ok {
		comm = e.dial(host)
		e.comms[host] = comm
	}
	return comm
}

// Run executes command on host under the given description and returns
// the result. A transport failure, a non-zero exit, or a capture failure
// all surface here; capture problems never mask the command's real exit
// code.
func (e *Executor) Run(ctx context.Context, host, description, command string) Result {
	logger := e.log.With().Str("host", host).Str("step", description).Logger()
	logger.Info().Str("command", e.sanitize(command)).Msg("running")

	output, code, err := e.communicator(host).Execute(ctx, command)
	result := Result{
		Host:        host,
		Description: description,
		Command:     e.sanitize(command),
		Output:      output,
		ExitCode:    code,
		Success:     err == nil && code == 0,
		Err:         err,
	}

	if !e.quiet {
		for _, line := range strings.Split(strings.TrimRight(output, "\n"), "\n") {
			if line != "" {
				logger.Debug().Msg(e.sanitize(line))
			}
		}
	}

	switch {
	case err != nil:
		result.Output = err.Error()
		logger.Error().Err(err).Msg("transport failure")
	case code != 0:
		logger.Error().Int("exit_code", code).Str("output", e.sanitize(Tail(output))).Msg("failed")
	default:
		logger.Info().Msg("ok")
	}

	if e.recorder != nil {
		e.recorder.Record(result)
	}
	return result
}

// Upload copies data to remotePath on host via the transport.
func (e *Executor) Upload(ctx context.Context, host, remotePath string, data []byte, mode os.FileMode) error {
	e.log.Info().Str("host", host).Str("path", remotePath).Msg("uploading")
	return e.communicator(host).Upload(ctx, remotePath, data, mode)
}

func (e *Executor) sanitize(s string) string {
	for secret, display := range e.redactions {
		s = strings.ReplaceAll(s, secret, display)
	}
	return s
}

// Tail returns the last few lines of output for error messages.
func Tail(output string) string {
	const maxLines = 3
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

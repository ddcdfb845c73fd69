// Package logging builds the run's zerolog sink: a leveled console writer
// plus an optional log file.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Options configures the logging sink.
type Options struct {
	// Verbosity maps 1..4 to error/warn/info/debug.
	Verbosity int
	// FilePath, when set, duplicates all output to a plain log file.
	FilePath string
	// NoColor forces monochrome console output.
	NoColor bool
}

// Level translates the configured verbosity into a zerolog level.
// Out-of-range values fall back to info.
func Level(verbosity int) zerolog.Level {
	switch verbosity {
	case 1:
		return zerolog.ErrorLevel
	case 2:
		return zerolog.WarnLevel
	case 4:
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}

// New builds the logger. The returned closer flushes and closes the log
// file (a no-op without one) and is safe to call on interrupt cleanup.
func New(opts Options) (zerolog.Logger, func() error, error) {
	console := zerolog.ConsoleWriter{
		Out:     os.Stderr,
		NoColor: opts.NoColor || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	writer := io.Writer(console)
	closer := func() error { return nil }

	if opts.FilePath != "" {
		file, err := os.OpenFile(opts.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) // #nosec G304
		if err != nil {
			return zerolog.Logger{}, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		writer = zerolog.MultiLevelWriter(console, file)
		closer = file.Close
	}

	logger := zerolog.New(writer).
		Level(Level(opts.Verbosity)).
		With().
		Timestamp().
		Logger()

	return logger, closer, nil
}

// WithComponent returns a child logger tagged with a component name.
func WithComponent(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

// Package sshx is the remote-shell transport: connect, exec, copy.
package sshx

import (
	"context"
	"os"
)

// Communicator executes commands and copies files on one remote host.
type Communicator interface {
	// Execute runs a command and returns its combined output and exit
	// code. A non-nil error with exit code -1 means the transport
	// itself failed; a non-zero exit code with nil error means the
	// command ran and failed.
	Execute(ctx context.Context, command string) (output string, exitCode int, err error)

	// Upload writes data to remotePath with the given mode, creating
	// parent directories as needed.
	Upload(ctx context.Context, remotePath string, data []byte, mode os.FileMode) error
}

// Dialer builds a Communicator for a host. The bootstrap engine holds one
// Dialer and fans out per host; tests substitute their own.
type Dialer func(host string) Communicator

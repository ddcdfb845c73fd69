package sshx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/halvard/swarmctl/internal/retry"
)

const (
	sshPort        = "22"
	connectTimeout = 10 * time.Second
	dialAttempts   = 5
	dialDelay      = 3 * time.Second
)

// Client implements Communicator over SSH with public-key auth.
type Client struct {
	host   string
	config *ssh.ClientConfig
}

// NewDialer parses the private key at keyPath once and returns a Dialer
// producing SSH clients for user@host.
func NewDialer(user, keyPath string) (Dialer, error) {
	key, err := os.ReadFile(keyPath) // #nosec G304 -- validated operator key path
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	config := &ssh.ClientConfig{
		User:            user,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // #nosec G106 -- hosts are freshly provisioned, no known_hosts yet
		Timeout:         connectTimeout,
	}

	return func(host string) Communicator {
		return &Client{host: host, config: config}
	}, nil
}

func (c *Client) dial(ctx context.Context) (*ssh.Client, error) {
	var client *ssh.Client
	err := retry.Do(ctx, func() error {
		var err error
		client, err = ssh.Dial("tcp", c.host+":"+sshPort, c.config)
		return err
	}, retry.WithAttempts(dialAttempts), retry.WithDelay(dialDelay))
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", c.host, err)
	}
	return client, nil
}

// Execute runs command on the remote host and returns combined output and
// the command's exit code.
func (c *Client) Execute(ctx context.Context, command string) (string, int, error) {
	client, err := c.dial(ctx)
	if err != nil {
		return "", -1, err
	}
	defer client.Close() //nolint:errcheck

	session, err := client.NewSession()
	if err != nil {
		return "", -1, fmt.Errorf("failed to open session on %s: %w", c.host, err)
	}
	defer session.Close() //nolint:errcheck

	output, err := session.CombinedOutput(command)
	return string(output), exitCode(err), transportErr(c.host, err)
}

// Upload copies data to remotePath, creating the parent directory. The
// write goes through sudo tee so that root-owned setup directories work
// with an unprivileged SSH user.
func (c *Client) Upload(ctx context.Context, remotePath string, data []byte, mode os.FileMode) error {
	client, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer client.Close() //nolint:errcheck

	session, err := client.NewSession()
	if err != nil {
		return fmt.Errorf("failed to open session on %s: %w", c.host, err)
	}
	defer session.Close() //nolint:errcheck

	session.Stdin = bytes.NewReader(data)
	cmd := fmt.Sprintf("sudo mkdir -p %s && sudo tee %s >/dev/null && sudo chmod %o %s",
		Quote(path.Dir(remotePath)), Quote(remotePath), mode.Perm(), Quote(remotePath))
	if out, err := session.CombinedOutput(cmd); err != nil {
		return fmt.Errorf("failed to upload %s to %s: %w (output: %s)",
			remotePath, c.host, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// exitCode extracts the remote command's exit status. A clean run is 0, a
// command failure carries its real code, and a transport failure is -1.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ssh.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitStatus()
	}
	return -1
}

// transportErr returns err only when the transport failed; command-level
// failures are reported through the exit code instead.
func transportErr(host string, err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ssh.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return fmt.Errorf("transport failure on %s: %w", host, err)
}

// Quote wraps s in single quotes for the remote shell, so that values
// interpolated into command lines are never interpreted as shell syntax.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Package netutil provides TCP reachability checks used for the manager
// control port and for post-deployment connectivity probes.
package netutil

import (
	"context"
	"fmt"
	"net"
	"time"
)

// DefaultProbeTimeout bounds a single connectivity probe.
const DefaultProbeTimeout = 3 * time.Second

// Probe attempts one TCP connection to host:port within timeout.
// It returns nil if the port accepted the connection.
func Probe(ctx context.Context, host, port string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	dialer := net.Dialer{Timeout: timeout}
	address := net.JoinHostPort(host, port)

	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("%s not reachable: %w", address, err)
	}
	_ = conn.Close()
	return nil
}

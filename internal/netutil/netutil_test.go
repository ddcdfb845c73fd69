package netutil

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbe_OpenPort(t *testing.T) {
	t.Parallel()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close() //nolint:errcheck

	_, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	err = Probe(context.Background(), "127.0.0.1", port, time.Second)
	assert.NoError(t, err)
}

func TestProbe_ClosedPort(t *testing.T) {
	t.Parallel()
	// Grab a free port, then close the listener so nothing accepts.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	_, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	require.NoError(t, ln.Close())

	err = Probe(context.Background(), "127.0.0.1", port, 500*time.Millisecond)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not reachable")
}

func TestProbe_CancelledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Probe(ctx, "203.0.113.1", "2377", time.Second)
	assert.Error(t, err)
}

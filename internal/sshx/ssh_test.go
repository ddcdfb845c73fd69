package sshx

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func writeTestKey(t *testing.T) string {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	block, err := ssh.MarshalPrivateKey(priv, "")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id_ed25519")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(block), 0o600))
	return path
}

func TestNewDialer(t *testing.T) {
	t.Parallel()
	dialer, err := NewDialer("ubuntu", writeTestKey(t))
	require.NoError(t, err)

	comm := dialer("10.0.1.5")
	client, ok := comm.(*Client)
	require.True(t, ok)
	assert.Equal(t, "10.0.1.5", client.host)
	assert.Equal(t, "ubuntu", client.config.User)
}

func TestNewDialer_MissingKey(t *testing.T) {
	t.Parallel()
	_, err := NewDialer("ubuntu", filepath.Join(t.TempDir(), "absent.pem"))
	assert.ErrorContains(t, err, "failed to read private key")
}

func TestNewDialer_MalformedKey(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "junk.pem")
	require.NoError(t, os.WriteFile(path, []byte("not a key"), 0o600))

	_, err := NewDialer("ubuntu", path)
	assert.ErrorContains(t, err, "failed to parse private key")
}

func TestExitCode(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, -1, exitCode(errors.New("connection reset")))
}

func TestTransportErr(t *testing.T) {
	t.Parallel()
	assert.NoError(t, transportErr("h", nil))
	assert.ErrorContains(t, transportErr("h", errors.New("dial failed")), "transport failure on h")
}

func TestQuote(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "'/opt/swarm-setup'", Quote("/opt/swarm-setup"))
	assert.Equal(t, `'it'\''s'`, Quote("it's"))
	assert.Equal(t, `'a b$(reboot)'`, Quote("a b$(reboot)"))
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeKeyFile creates a readable dummy key and returns its path.
func writeKeyFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "id_test")
	require.NoError(t, os.WriteFile(path, []byte("not a real key"), 0o600))
	return path
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg, _, err := Parse([]byte("manager_host: 203.0.113.10\nmanager_advertise_addr: 10.0.1.5\n"))
	require.NoError(t, err)
	cfg.SSHPrivateKeyPath = writeKeyFile(t)
	return cfg
}

func TestValidIPv4(t *testing.T) {
	t.Parallel()
	accept := []string{"10.0.1.5", "0.0.0.0", "255.255.255.255", "203.0.113.10"}
	for _, ip := range accept {
		assert.True(t, ValidIPv4(ip), "expected %q to be accepted", ip)
	}

	reject := []string{"10.0.0.256", "10.0.0", "10.0.0.0.1", "", "manager.example.com", "10.0.0.-1", "10.0.0.1x", "..."}
	for _, ip := range reject {
		assert.False(t, ValidIPv4(ip), "expected %q to be rejected", ip)
	}
}

func TestValidPort(t *testing.T) {
	t.Parallel()
	accept := []string{"1", "80", "8081", "65535"}
	for _, p := range accept {
		assert.True(t, ValidPort(p), "expected %q to be accepted", p)
	}

	reject := []string{"0", "70000", "-1", "8081x", "", "65536", "+80"}
	for _, p := range reject {
		assert.False(t, ValidPort(p), "expected %q to be rejected", p)
	}
}

func TestValidHostname(t *testing.T) {
	t.Parallel()
	assert.True(t, ValidHostname("manager-1.example.com"))
	assert.True(t, ValidHostname("203.0.113.10"))
	assert.False(t, ValidHostname("bad host"))
	assert.False(t, ValidHostname("under_score"))
	assert.False(t, ValidHostname(""))
}

func TestValidate_ValidConfig(t *testing.T) {
	t.Parallel()
	cfg := validConfig(t)
	assert.Empty(t, cfg.Validate())
}

func TestValidate_MissingAdvertiseAddr(t *testing.T) {
	t.Parallel()
	cfg, _, err := Parse([]byte("manager_host: 203.0.113.10\n"))
	require.NoError(t, err)
	cfg.SSHPrivateKeyPath = writeKeyFile(t)

	errs := cfg.Validate()
	require.Len(t, errs, 1, "exactly one field error expected")
	assert.Equal(t, "manager_advertise_addr", errs[0].Field)
}

func TestValidate_AccumulatesWithoutShortCircuit(t *testing.T) {
	t.Parallel()
	cfg := validConfig(t)
	cfg.ManagerAdvertiseAddr = "manager.example.com" // hostname not allowed here
	cfg.RegistryPort = "8081x"
	cfg.MetricsPort = "70000"
	cfg.LogVerbosity = 9

	errs := cfg.Validate()
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"manager_advertise_addr", "registry_port", "metrics_port", "log_verbosity"}, fields)
}

func TestValidate_ManagerHostAllowsHostname(t *testing.T) {
	t.Parallel()
	cfg := validConfig(t)
	cfg.ManagerHost = "swarm-manager.internal"
	assert.Empty(t, cfg.Validate())

	cfg.ManagerHost = "has space"
	errs := cfg.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "manager_host", errs[0].Field)
}

func TestValidate_MissingKeyFile(t *testing.T) {
	t.Parallel()
	cfg := validConfig(t)
	cfg.SSHPrivateKeyPath = filepath.Join(t.TempDir(), "nope.pem")

	errs := cfg.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "ssh_private_key_path", errs[0].Field)
	assert.Contains(t, errs[0].Message, "does not exist")
}

func TestValidate_DuplicateHosts(t *testing.T) {
	t.Parallel()
	cfg := validConfig(t)
	cfg.WorkerHosts = "10.0.1.6,10.0.1.6"

	errs := cfg.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "worker_hosts", errs[0].Field)

	cfg.WorkerHosts = cfg.ManagerHost // manager repeated as worker
	errs = cfg.Validate()
	require.Len(t, errs, 1)
}

func TestWarnings_DefaultCredentials(t *testing.T) {
	t.Parallel()
	cfg := validConfig(t)
	warnings := cfg.Warnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "insecure")

	cfg.DashboardAdminPassword = "s3cret"
	assert.Empty(t, cfg.Warnings())
}

func TestExpandHome(t *testing.T) {
	t.Parallel()
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandHome("~/.ssh/aws-swarm.pem")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".ssh", "aws-swarm.pem"), got)

	got, err = ExpandHome("/abs/path.pem")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path.pem", got)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_AppliesDefaults(t *testing.T) {
	t.Parallel()
	cfg, unknown, err := Parse([]byte("manager_host: 203.0.113.10\nmanager_advertise_addr: 10.0.1.5\n"))
	require.NoError(t, err)
	assert.Empty(t, unknown)

	assert.Equal(t, "ubuntu", cfg.SSHUser)
	assert.Equal(t, "~/.ssh/aws-swarm.pem", cfg.SSHPrivateKeyPath)
	assert.Equal(t, "", cfg.WorkerHosts)
	assert.True(t, cfg.SwarmAutolock)
	assert.Equal(t, "public", cfg.OverlayNetworkName)
	assert.True(t, cfg.OverlayNetworkEncrypted)
	assert.True(t, cfg.DeployRegistryStack)
	assert.True(t, cfg.DeployIngressStack)
	assert.True(t, cfg.DeployMonitoringStack)
	assert.Equal(t, "/opt/swarm-setup", cfg.RemoteSetupDir)
	assert.Equal(t, "/opt/swarm-data", cfg.RemoteDataDir)
	assert.Equal(t, "8081", cfg.RegistryPort)
	assert.Equal(t, "80", cfg.HTTPPort)
	assert.Equal(t, "443", cfg.HTTPSPort)
	assert.Equal(t, "3000", cfg.DashboardPort)
	assert.Equal(t, "9090", cfg.MetricsPort)
	assert.Equal(t, "admin", cfg.DashboardAdminUser)
	assert.Equal(t, "admin", cfg.DashboardAdminPassword)
	assert.Equal(t, 3, cfg.LogVerbosity)
}

func TestParse_ExplicitValuesOverrideDefaults(t *testing.T) {
	t.Parallel()
	cfg, _, err := Parse([]byte(`
manager_host: swarm-manager
manager_advertise_addr: 10.0.1.5
ssh_user: admin
swarm_autolock: false
deploy_monitoring_stack: false
registry_port: 5000
log_verbosity: 4
`))
	require.NoError(t, err)

	assert.Equal(t, "admin", cfg.SSHUser)
	assert.False(t, cfg.SwarmAutolock)
	assert.False(t, cfg.DeployMonitoringStack)
	assert.True(t, cfg.DeployRegistryStack)
	// Bare YAML integer lands in the string port field.
	assert.Equal(t, "5000", cfg.RegistryPort)
	assert.Equal(t, 4, cfg.LogVerbosity)
}

func TestParse_UnknownKeysReported(t *testing.T) {
	t.Parallel()
	cfg, unknown, err := Parse([]byte("manager_host: m\nmanager_advertise_addr: 10.0.1.5\ntypo_key: 1\n"))
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, []string{"typo_key"}, unknown)
}

func TestParse_MalformedYAML(t *testing.T) {
	t.Parallel()
	_, _, err := Parse([]byte(":\n\t- bad"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "swarm.yaml")
	require.NoError(t, os.WriteFile(path, []byte("manager_host: 203.0.113.10\nmanager_advertise_addr: 10.0.1.5\n"), 0o600))

	cfg, _, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.10", cfg.ManagerHost)

	_, _, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWorkersAndHosts(t *testing.T) {
	t.Parallel()
	cfg := &Config{
		ManagerHost: "10.0.1.5",
		WorkerHosts: " 10.0.1.6 ,10.0.1.7,, ",
	}

	assert.Equal(t, []string{"10.0.1.6", "10.0.1.7"}, cfg.Workers())

	hosts := cfg.Hosts()
	require.Len(t, hosts, 3)
	assert.Equal(t, Host{Addr: "10.0.1.5", Role: RoleManager}, hosts[0])
	assert.Equal(t, Host{Addr: "10.0.1.6", Role: RoleWorker}, hosts[1])
	assert.Equal(t, Host{Addr: "10.0.1.7", Role: RoleWorker}, hosts[2])
}

func TestHosts_ManagerOnly(t *testing.T) {
	t.Parallel()
	cfg := &Config{ManagerHost: "10.0.1.5"}
	hosts := cfg.Hosts()
	require.Len(t, hosts, 1)
	assert.Equal(t, RoleManager, hosts[0].Role)
}

func TestManagerEndpoint(t *testing.T) {
	t.Parallel()
	cfg := &Config{ManagerAdvertiseAddr: "10.0.1.5"}
	assert.Equal(t, "10.0.1.5:2377", cfg.ManagerEndpoint())
}

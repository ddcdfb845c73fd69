package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/halvard/swarmctl/internal/config"
	"github.com/halvard/swarmctl/internal/remote"
	testutil "github.com/halvard/swarmctl/internal/testing"
)

const (
	managerAddr = "10.0.0.10"
	workerAddr  = "10.0.0.11"
	worker2Addr = "10.0.0.12"
)

// Swarm info replies as the engine formats them.
const (
	infoInactive = `{"NodeID":"","NodeAddr":"","LocalNodeState":"inactive","ControlAvailable":false,"Error":"","RemoteManagers":null}`

	infoManager = `{"NodeID":"m1","NodeAddr":"10.0.0.10","LocalNodeState":"active","ControlAvailable":true,"Error":"",` +
		`"RemoteManagers":[{"NodeID":"m1","Addr":"10.0.0.10:2377"}],` +
		`"Cluster":{"ID":"cluster-alpha","Spec":{"EncryptionConfig":{"AutoLockManagers":true}}}}`

	infoWorkerJoined = `{"NodeID":"w1","NodeAddr":"10.0.0.11","LocalNodeState":"active","ControlAvailable":false,"Error":"",` +
		`"RemoteManagers":[{"NodeID":"m1","Addr":"10.0.0.10:2377"}]}`

	infoWorkerForeign = `{"NodeID":"w1","NodeAddr":"10.0.0.11","LocalNodeState":"active","ControlAvailable":false,"Error":"",` +
		`"RemoteManagers":[{"NodeID":"x9","Addr":"192.168.50.1:2377"}]}`
)

func testConfig() *config.Config {
	return &config.Config{
		SSHUser:                 "ubuntu",
		SSHPrivateKeyPath:       "~/.ssh/aws-swarm.pem",
		ManagerHost:             managerAddr,
		WorkerHosts:             workerAddr,
		ManagerAdvertiseAddr:    managerAddr,
		SwarmAutolock:           true,
		OverlayNetworkName:      "public",
		OverlayNetworkEncrypted: true,
		DeployRegistryStack:     true,
		DeployIngressStack:      true,
		DeployMonitoringStack:   true,
		RemoteSetupDir:          "/opt/swarm-setup",
		RemoteDataDir:           "/opt/swarm-data",
		RegistryPort:            "8081",
		HTTPPort:                "80",
		HTTPSPort:               "443",
		DashboardPort:           "3000",
		MetricsPort:             "9090",
		DashboardAdminUser:      "admin",
		DashboardAdminPassword:  "admin",
		LogVerbosity:            3,
	}
}

func newTestContext(t *testing.T, cfg *config.Config, fleet testutil.Fleet) *Context {
	t.Helper()
	report := NewReport()
	exec := remote.NewExecutor(fleet.Dialer(), zerolog.Nop(), report, true)
	return NewContext(context.Background(), cfg, exec, zerolog.Nop(), report)
}

// openPort is a probe stub that always reports the port reachable.
func openPort(context.Context, string, string, time.Duration) error { return nil }

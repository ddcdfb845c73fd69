// Package config defines the bootstrap configuration: a typed option
// schema, YAML loading with pure defaulting, and accumulated validation.
package config

import "strings"

// Config is the immutable snapshot of all recognized options. It is built
// once by LoadFile and passed by reference; no component reads ambient
// process state.
type Config struct {
	SSHUser              string `mapstructure:"ssh_user"`
	SSHPrivateKeyPath    string `mapstructure:"ssh_private_key_path"`
	ManagerHost          string `mapstructure:"manager_host"`
	WorkerHosts          string `mapstructure:"worker_hosts"`
	ManagerAdvertiseAddr string `mapstructure:"manager_advertise_addr"`

	SwarmAutolock           bool   `mapstructure:"swarm_autolock"`
	OverlayNetworkName      string `mapstructure:"overlay_network_name"`
	OverlayNetworkEncrypted bool   `mapstructure:"overlay_network_encrypted"`

	DeployRegistryStack   bool `mapstructure:"deploy_registry_stack"`
	DeployIngressStack    bool `mapstructure:"deploy_ingress_stack"`
	DeployMonitoringStack bool `mapstructure:"deploy_monitoring_stack"`

	RemoteSetupDir string `mapstructure:"remote_setup_dir"`
	RemoteDataDir  string `mapstructure:"remote_data_dir"`

	// Ports stay strings until validated; the source format carries them
	// as opaque values and validation owns the numeric range check.
	RegistryPort  string `mapstructure:"registry_port"`
	HTTPPort      string `mapstructure:"http_port"`
	HTTPSPort     string `mapstructure:"https_port"`
	DashboardPort string `mapstructure:"dashboard_port"`
	MetricsPort   string `mapstructure:"metrics_port"`

	DashboardAdminUser     string `mapstructure:"dashboard_admin_user"`
	DashboardAdminPassword string `mapstructure:"dashboard_admin_password"`

	LogVerbosity int `mapstructure:"log_verbosity"`
}

// Role identifies a host's place in the cluster.
type Role string

const (
	// RoleManager controls cluster membership and receives stack deploys.
	RoleManager Role = "manager"
	// RoleWorker joins the cluster to run scheduled workloads.
	RoleWorker Role = "worker"
)

// Host is one remote machine targeted by the bootstrap.
type Host struct {
	Addr string
	Role Role
}

// Workers returns the worker host addresses in list order, with empty
// entries dropped.
func (c *Config) Workers() []string {
	var workers []string
	for _, h := range strings.Split(c.WorkerHosts, ",") {
		h = strings.TrimSpace(h)
		if h != "" {
			workers = append(workers, h)
		}
	}
	return workers
}

// Hosts returns all hosts, manager first, then workers in list order.
func (c *Config) Hosts() []Host {
	hosts := []Host{{Addr: c.ManagerHost, Role: RoleManager}}
	for _, w := range c.Workers() {
		hosts = append(hosts, Host{Addr: w, Role: RoleWorker})
	}
	return hosts
}

// ManagerEndpoint returns the advertise address with the swarm control
// port attached, the form workers join against.
func (c *Config) ManagerEndpoint() string {
	return c.ManagerAdvertiseAddr + ":" + SwarmControlPort
}

// SwarmControlPort is the fixed port the manager listens on for joins.
const SwarmControlPort = "2377"

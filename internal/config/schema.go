package config

import "fmt"

// Kind is the declared type of a configuration option.
type Kind int

const (
	// KindString options pass through as-is.
	KindString Kind = iota
	// KindBool options accept true/false in any YAML spelling.
	KindBool
	// KindInt options must resolve to an integer.
	KindInt
)

// Option declares one recognized configuration key.
type Option struct {
	Key      string
	Kind     Kind
	Default  any
	Required bool
}

// Schema declares every recognized option with its type, default, and
// required flag. Defaulting is driven entirely by this table.
var Schema = []Option{
	{Key: "ssh_user", Kind: KindString, Default: "ubuntu"},
	{Key: "ssh_private_key_path", Kind: KindString, Default: "~/.ssh/aws-swarm.pem"},
	{Key: "manager_host", Kind: KindString, Required: true},
	{Key: "worker_hosts", Kind: KindString, Default: ""},
	{Key: "manager_advertise_addr", Kind: KindString, Required: true},
	{Key: "swarm_autolock", Kind: KindBool, Default: true},
	{Key: "overlay_network_name", Kind: KindString, Default: "public"},
	{Key: "overlay_network_encrypted", Kind: KindBool, Default: true},
	{Key: "deploy_registry_stack", Kind: KindBool, Default: true},
	{Key: "deploy_ingress_stack", Kind: KindBool, Default: true},
	{Key: "deploy_monitoring_stack", Kind: KindBool, Default: true},
	{Key: "remote_setup_dir", Kind: KindString, Default: "/opt/swarm-setup"},
	{Key: "remote_data_dir", Kind: KindString, Default: "/opt/swarm-data"},
	{Key: "registry_port", Kind: KindString, Default: "8081"},
	{Key: "http_port", Kind: KindString, Default: "80"},
	{Key: "https_port", Kind: KindString, Default: "443"},
	{Key: "dashboard_port", Kind: KindString, Default: "3000"},
	{Key: "metrics_port", Kind: KindString, Default: "9090"},
	{Key: "dashboard_admin_user", Kind: KindString, Default: "admin"},
	{Key: "dashboard_admin_password", Kind: KindString, Default: "admin"},
	{Key: "log_verbosity", Kind: KindInt, Default: 3},
}

// Resolve applies schema defaults to a raw key/value map. It is a pure
// function of its inputs: recognized keys are copied over their defaults,
// unrecognized keys are returned for the caller to warn about. Required
// options without a value resolve to empty and are caught by validation,
// not here.
func Resolve(raw map[string]any) (resolved map[string]any, unknown []string) {
	resolved = make(map[string]any, len(Schema))
	known := make(map[string]bool, len(Schema))
	for _, opt := range Schema {
		known[opt.Key] = true
		if opt.Default != nil {
			resolved[opt.Key] = opt.Default
		}
	}

	for key, value := range raw {
		if !known[key] {
			unknown = append(unknown, key)
			continue
		}
		resolved[key] = value
	}
	return resolved, unknown
}

// PortFields maps the port option keys to their resolved values, in a
// stable order. Validation and connectivity probing both walk this set.
func (c *Config) PortFields() []struct{ Field, Value string } {
	return []struct{ Field, Value string }{
		{"registry_port", c.RegistryPort},
		{"http_port", c.HTTPPort},
		{"https_port", c.HTTPSPort},
		{"dashboard_port", c.DashboardPort},
		{"metrics_port", c.MetricsPort},
	}
}

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

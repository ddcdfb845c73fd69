package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
)

// WizardResult holds the user's choices from the interactive setup.
type WizardResult struct {
	SSHUser           string
	SSHPrivateKeyPath string
	ManagerHost       string
	WorkerHosts       string
	AdvertiseAddr     string
	Autolock          bool
	AdminUser         string
	AdminPassword     string
}

// RunWizard walks the operator through the handful of options that have
// no sensible default. Everything else lands in the file with its
// default value, explicit and editable.
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{
		SSHUser:           "ubuntu",
		SSHPrivateKeyPath: "~/.ssh/aws-swarm.pem",
		Autolock:          true,
		AdminUser:         "admin",
		AdminPassword:     "admin",
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("SSH user").
				Description("Login user on every host; must have passwordless sudo").
				Value(&result.SSHUser).
				Validate(notEmpty("ssh user")),

			huh.NewInput().
				Title("SSH private key path").
				Description("Key authorized on every host (~ expands to your home)").
				Value(&result.SSHPrivateKeyPath).
				Validate(notEmpty("key path")),
		),

		huh.NewGroup(
			huh.NewInput().
				Title("Manager host").
				Description("Public IPv4 or hostname the tool connects to").
				Placeholder("203.0.113.10").
				Value(&result.ManagerHost).
				Validate(validateManagerHost),

			huh.NewInput().
				Title("Manager advertise address").
				Description("Private IPv4 the other hosts reach the manager on").
				Placeholder("10.0.0.10").
				Value(&result.AdvertiseAddr).
				Validate(validateAdvertiseAddr),

			huh.NewInput().
				Title("Worker hosts").
				Description("Comma-separated addresses; leave empty for a manager-only cluster").
				Placeholder("10.0.0.11,10.0.0.12").
				Value(&result.WorkerHosts),
		),

		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable cluster autolock?").
				Description("Encryption keys must be unlocked manually after a manager restart").
				Value(&result.Autolock),
		),

		huh.NewGroup(
			huh.NewInput().
				Title("Dashboard admin user").
				Value(&result.AdminUser).
				Validate(notEmpty("admin user")),

			huh.NewInput().
				Title("Dashboard admin password").
				Description("Anything but admin/admin, please").
				EchoMode(huh.EchoModePassword).
				Value(&result.AdminPassword).
				Validate(notEmpty("admin password")),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("wizard canceled: %w", err)
	}

	return result, nil
}

func notEmpty(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", what)
		}
		return nil
	}
}

func validateManagerHost(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("manager host cannot be empty")
	}
	if !ValidIPv4(s) && !ValidHostname(s) {
		return fmt.Errorf("not a valid IPv4 address or hostname")
	}
	return nil
}

func validateAdvertiseAddr(s string) error {
	if !ValidIPv4(s) {
		return fmt.Errorf("must be a plain IPv4 address")
	}
	return nil
}

// WriteYAML renders the wizard result as a fully explicit config file.
// Every option appears, defaulted or not, so the file doubles as
// documentation.
func WriteYAML(r *WizardResult, path string) error {
	var b strings.Builder

	section := func(title string) {
		b.WriteString("\n# " + title + "\n")
	}
	opt := func(key, value string) {
		fmt.Fprintf(&b, "%s: %s\n", key, value)
	}
	// User-entered text is always written quoted; a password containing
	// ": " or "#" must survive the round trip through the parser.
	str := func(key, value string) {
		opt(key, fmt.Sprintf("%q", value))
	}

	b.WriteString("# Cluster bootstrap configuration.\n")

	section("SSH access")
	str("ssh_user", r.SSHUser)
	str("ssh_private_key_path", r.SSHPrivateKeyPath)

	section("Hosts")
	str("manager_host", r.ManagerHost)
	str("worker_hosts", r.WorkerHosts)
	str("manager_advertise_addr", r.AdvertiseAddr)

	section("Cluster")
	opt("swarm_autolock", fmt.Sprintf("%t", r.Autolock))
	opt("overlay_network_name", "public")
	opt("overlay_network_encrypted", "true")

	section("Stacks")
	opt("deploy_registry_stack", "true")
	opt("deploy_ingress_stack", "true")
	opt("deploy_monitoring_stack", "true")

	section("Remote directories")
	str("remote_setup_dir", "/opt/swarm-setup")
	str("remote_data_dir", "/opt/swarm-data")

	section("Published ports")
	opt("registry_port", "8081")
	opt("http_port", "80")
	opt("https_port", "443")
	opt("dashboard_port", "3000")
	opt("metrics_port", "9090")

	section("Dashboard credentials")
	str("dashboard_admin_user", r.AdminUser)
	str("dashboard_admin_password", r.AdminPassword)

	section("Logging (1=error 2=warn 3=info 4=debug)")
	opt("log_verbosity", "3")

	return os.WriteFile(path, []byte(b.String()), 0o600)
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// FieldError reports one invalid configuration field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var hostnamePattern = regexp.MustCompile(`^[A-Za-z0-9.-]+$`)

// Validate checks the whole configuration without short-circuiting and
// returns every field error found. The configuration is usable iff the
// returned slice is empty. Validation has no side effects beyond reading
// the SSH key path.
func (c *Config) Validate() []FieldError {
	var errs []FieldError
	add := func(field, format string, args ...any) {
		errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if c.SSHUser == "" {
		add("ssh_user", "is required")
	}

	switch {
	case c.SSHPrivateKeyPath == "":
		add("ssh_private_key_path", "is required")
	default:
		keyPath, err := ExpandHome(c.SSHPrivateKeyPath)
		if err != nil {
			add("ssh_private_key_path", "cannot expand %q: %v", c.SSHPrivateKeyPath, err)
		} else if err := checkReadable(keyPath); err != nil {
			add("ssh_private_key_path", "%v", err)
		}
	}

	switch {
	case c.ManagerHost == "":
		add("manager_host", "is required")
	case !ValidIPv4(c.ManagerHost) && !ValidHostname(c.ManagerHost):
		add("manager_host", "%q is neither an IPv4 address nor a hostname", c.ManagerHost)
	}

	switch {
	case c.ManagerAdvertiseAddr == "":
		add("manager_advertise_addr", "is required")
	case !ValidIPv4(c.ManagerAdvertiseAddr):
		add("manager_advertise_addr", "%q is not an IPv4 address", c.ManagerAdvertiseAddr)
	}

	for _, pf := range c.PortFields() {
		if !ValidPort(pf.Value) {
			add(pf.Field, "%q is not a port in [1,65535]", pf.Value)
		}
	}

	if c.LogVerbosity < 1 || c.LogVerbosity > 4 {
		add("log_verbosity", "%d is outside [1,4]", c.LogVerbosity)
	}

	seen := map[string]bool{}
	for _, h := range c.Hosts() {
		if h.Addr == "" {
			continue
		}
		if seen[h.Addr] {
			add("worker_hosts", "host %q listed more than once", h.Addr)
		}
		seen[h.Addr] = true
	}

	return errs
}

// Warnings reports insecure-but-valid settings. They never fail
// validation; the run report counts them.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.DashboardAdminUser == "admin" && c.DashboardAdminPassword == "admin" {
		warnings = append(warnings, "dashboard admin credentials are the insecure defaults (admin/admin)")
	}
	return warnings
}

// ValidIPv4 reports whether s is exactly four dot-separated decimal
// integers, each in [0,255]. Hostnames, short forms, and five-part
// addresses are rejected.
func ValidIPv4(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}
	for _, part := range parts {
		if part == "" || !isDigits(part) {
			return false
		}
		n, err := strconv.Atoi(part)
		if err != nil || n > 255 {
			return false
		}
	}
	return true
}

// ValidPort reports whether s is a purely numeric port in [1,65535].
func ValidPort(s string) bool {
	if s == "" || !isDigits(s) {
		return false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}

// ValidHostname reports whether s matches the permitted hostname
// character set.
func ValidHostname(s string) bool {
	return hostnamePattern.MatchString(s)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ExpandHome replaces a leading "~" with the current user's home
// directory.
func ExpandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}

func checkReadable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("key file %s does not exist", path)
	}
	if info.IsDir() {
		return fmt.Errorf("key file %s is a directory", path)
	}
	f, err := os.Open(path) // #nosec G304 -- operator-supplied key path
	if err != nil {
		return fmt.Errorf("key file %s is not readable", path)
	}
	return f.Close()
}

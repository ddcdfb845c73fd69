package testing

import (
	"context"
	"os"
	"strings"

	"github.com/halvard/swarmctl/internal/sshx"
)

// Rule maps a command substring to a scripted response. Rules are checked
// in order; the first match wins. A Respond func takes precedence over
// the static fields, which lets scenarios model state changes (a host
// that reports itself a member only after join ran).
type Rule struct {
	Match   string
	Output  string
	Code    int
	Err     error
	Respond func(command string) (string, int, error)
}

// FakeHost is a scripted Communicator for scenario tests. It records
// every executed command and upload so ordering assertions stay cheap.
type FakeHost struct {
	Rules    []Rule
	Commands []string
	Uploads  []string
}

// Execute matches command against the script.
func (f *FakeHost) Execute(_ context.Context, command string) (string, int, error) {
	f.Commands = append(f.Commands, command)
	for i := range f.Rules {
		rule := &f.Rules[i]
		if rule.Match != "" && contains(command, rule.Match) {
			if rule.Respond != nil {
				return rule.Respond(command)
			}
			return rule.Output, rule.Code, rule.Err
		}
	}
	return "", 0, nil
}

// Upload records the destination path.
func (f *FakeHost) Upload(_ context.Context, remotePath string, _ []byte, _ os.FileMode) error {
	f.Uploads = append(f.Uploads, remotePath)
	return nil
}

// CommandsMatching returns the recorded commands containing substr.
func (f *FakeHost) CommandsMatching(substr string) []string {
	var out []string
	for _, c := range f.Commands {
		if contains(c, substr) {
			out = append(out, c)
		}
	}
	return out
}

// Fleet maps host addresses to their scripted fakes and acts as a Dialer.
type Fleet map[string]*FakeHost

// Dialer returns an sshx.Dialer over the fleet. Unknown hosts get an
// empty fake so tests fail on assertions, not panics.
func (fl Fleet) Dialer() sshx.Dialer {
	return func(host string) sshx.Communicator {
		fake, ok := fl[host]
		if !ok {
			fake = &FakeHost{}
			fl[host] = fake
		}
		return fake
	}
}

// StateChanges counts commands across the fleet that mutate cluster or
// engine state, for idempotency assertions.
func (fl Fleet) StateChanges() []string {
	var changes []string
	// Stack redeploys are excluded: re-issuing a deploy is the engine's
	// idempotent-reconciliation contract, not a state change here.
	mutating := []string{
		"swarm init", "swarm join ", "swarm leave", "swarm update",
		"network create", "install-engine",
	}
	for _, fake := range fl {
		for _, cmd := range fake.Commands {
			for _, m := range mutating {
				if contains(cmd, m) {
					changes = append(changes, cmd)
					break
				}
			}
		}
	}
	return changes
}

func contains(s, substr string) bool {
	return substr != "" && strings.Contains(s, substr)
}

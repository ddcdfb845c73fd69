// Package bootstrap drives remote hosts from bare OS to cluster members
// running the application stacks, one sequential phase at a time.
package bootstrap

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/halvard/swarmctl/internal/config"
	"github.com/halvard/swarmctl/internal/remote"
)

// NodeState is a host's position in the bootstrap progression. It moves
// forward only, except for the explicit leave-and-rejoin reset.
type NodeState int

const (
	// EngineAbsent means the container engine is missing or its daemon
	// is unreachable.
	EngineAbsent NodeState = iota
	// EngineReady means the engine daemon answers.
	EngineReady
	// ClusterMember means the host is an active member of the target
	// cluster.
	ClusterMember
)

func (s NodeState) String() string {
	switch s {
	case EngineAbsent:
		return "engine-absent"
	case EngineReady:
		return "engine-ready"
	case ClusterMember:
		return "cluster-member"
	default:
		return "unknown"
	}
}

// ErrTokenAlreadySet guards the write-once join token.
var ErrTokenAlreadySet = errors.New("join token already set for this run")

// State is the run's mutable bootstrap state. Created at run start, never
// persisted; correctness on re-run comes from re-querying the hosts.
type State struct {
	nodes     map[string]NodeState
	joinToken string
	clusterID string
}

// NewState returns an empty run state.
func NewState() *State {
	return &State{nodes: map[string]NodeState{}}
}

// NodeState returns host's current state (EngineAbsent when untracked).
func (s *State) NodeState(host string) NodeState {
	return s.nodes[host]
}

// SetNodeState records host's new state.
func (s *State) SetNodeState(host string, state NodeState) {
	s.nodes[host] = state
}

// Nodes returns a copy of the per-host state map.
func (s *State) Nodes() map[string]NodeState {
	out := make(map[string]NodeState, len(s.nodes))
	for k, v := range s.nodes {
		out[k] = v
	}
	return out
}

// SetJoinToken stores the worker join token. It is write-once per run;
// a second write is a programming error surfaced to the caller.
func (s *State) SetJoinToken(token string) error {
	if s.joinToken != "" {
		return ErrTokenAlreadySet
	}
	s.joinToken = token
	return nil
}

// JoinToken returns the stored token, empty if none was fetched.
func (s *State) JoinToken() string {
	return s.joinToken
}

// SetClusterID records the manager's cluster identity for best-effort
// worker identity checks.
func (s *State) SetClusterID(id string) { s.clusterID = id }

// ClusterID returns the manager's cluster identity.
func (s *State) ClusterID() string { return s.clusterID }

// Context wraps everything a phase needs.
type Context struct {
	context.Context
	Config *config.Config
	State  *State
	Exec   *remote.Executor
	Log    zerolog.Logger
	Report *Report
}

// NewContext builds a phase context over the given dependencies.
func NewContext(ctx context.Context, cfg *config.Config, exec *remote.Executor, logger zerolog.Logger, report *Report) *Context {
	return &Context{
		Context: ctx,
		Config:  cfg,
		State:   NewState(),
		Exec:    exec,
		Log:     logger,
		Report:  report,
	}
}

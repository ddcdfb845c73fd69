// Package swarm models the container engine's clustering control plane as
// typed commands and parsed replies. Everything here travels over remote
// exec; the engine's JSON format output is the structured query surface.
package swarm

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// LocalNodeState is the engine's view of this host's cluster membership.
type LocalNodeState string

const (
	// StateInactive means the host is not part of any cluster.
	StateInactive LocalNodeState = "inactive"
	// StatePending means a join is in flight.
	StatePending LocalNodeState = "pending"
	// StateActive means the host is a cluster member.
	StateActive LocalNodeState = "active"
	// StateError means the last cluster operation failed.
	StateError LocalNodeState = "error"
	// StateLocked means the cluster is autolocked and awaiting unlock.
	StateLocked LocalNodeState = "locked"
)

// RemoteManager is a manager endpoint known to a member node.
type RemoteManager struct {
	NodeID string `json:"NodeID"`
	Addr   string `json:"Addr"`
}

// ClusterInfo carries cluster-scoped fields; only managers report it.
type ClusterInfo struct {
	ID   string `json:"ID"`
	Spec struct {
		EncryptionConfig struct {
			AutoLockManagers bool `json:"AutoLockManagers"`
		} `json:"EncryptionConfig"`
	} `json:"Spec"`
}

// Autolocked reports whether the cluster already has manager autolock
// enabled. Only meaningful on a manager's Info.
func (i Info) Autolocked() bool {
	return i.Cluster != nil && i.Cluster.Spec.EncryptionConfig.AutoLockManagers
}

// Info is the decoded `docker info --format '{{json .Swarm}}'` reply.
type Info struct {
	NodeID           string          `json:"NodeID"`
	NodeAddr         string          `json:"NodeAddr"`
	LocalNodeState   LocalNodeState  `json:"LocalNodeState"`
	ControlAvailable bool            `json:"ControlAvailable"`
	Error            string          `json:"Error"`
	RemoteManagers   []RemoteManager `json:"RemoteManagers"`
	Cluster          *ClusterInfo    `json:"Cluster,omitempty"`
}

// ActiveMember reports whether the host is an active cluster member.
func (i Info) ActiveMember() bool {
	return i.LocalNodeState == StateActive
}

// IsManager reports whether the host holds the manager role.
func (i Info) IsManager() bool {
	return i.ActiveMember() && i.ControlAvailable
}

// ManagerAddr returns the first manager endpoint the node reports, or ""
// when it knows none.
func (i Info) ManagerAddr() string {
	if len(i.RemoteManagers) == 0 {
		return ""
	}
	return i.RemoteManagers[0].Addr
}

// ParseInfo decodes the swarm section of `docker info`.
func ParseInfo(output string) (Info, error) {
	var info Info
	if err := json.Unmarshal([]byte(strings.TrimSpace(output)), &info); err != nil {
		return Info{}, fmt.Errorf("cannot parse swarm info: %w", err)
	}
	return info, nil
}

// Service is one line of `docker service ls --format '{{json .}}'`.
type Service struct {
	ID       string `json:"ID"`
	Name     string `json:"Name"`
	Mode     string `json:"Mode"`
	Replicas string `json:"Replicas"`
}

// ParseServices decodes a JSON-lines service listing.
func ParseServices(output string) ([]Service, error) {
	var services []Service
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var svc Service
		if err := json.Unmarshal([]byte(line), &svc); err != nil {
			return nil, fmt.Errorf("cannot parse service line %q: %w", line, err)
		}
		services = append(services, svc)
	}
	return services, nil
}

// Replicas is a service's observed and desired task counts.
type Replicas struct {
	Current int
	Desired int
}

// TargetReached reports whether the service converged: current equals
// desired and at least one task is running. Global-mode services report
// host-count targets, so any k/k counts.
func (r Replicas) TargetReached() bool {
	return r.Desired > 0 && r.Current == r.Desired
}

// ParseReplicas decodes a replica string such as "3/3" or
// "1/1 (max 1 per node)". The second return is false for unparseable
// strings.
func ParseReplicas(s string) (Replicas, bool) {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	current, desired, ok := strings.Cut(s, "/")
	if !ok {
		return Replicas{}, false
	}
	cur, err := strconv.Atoi(current)
	if err != nil {
		return Replicas{}, false
	}
	des, err := strconv.Atoi(desired)
	if err != nil {
		return Replicas{}, false
	}
	return Replicas{Current: cur, Desired: des}, true
}

// Node is one line of `docker node ls --format '{{json .}}'`.
type Node struct {
	ID            string `json:"ID"`
	Hostname      string `json:"Hostname"`
	Status        string `json:"Status"`
	Availability  string `json:"Availability"`
	ManagerStatus string `json:"ManagerStatus"`
}

// ParseNodes decodes a JSON-lines node listing.
func ParseNodes(output string) ([]Node, error) {
	var nodes []Node
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var node Node
		if err := json.Unmarshal([]byte(line), &node); err != nil {
			return nil, fmt.Errorf("cannot parse node line %q: %w", line, err)
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

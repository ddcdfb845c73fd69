package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/halvard/swarmctl/internal/config"
	"github.com/halvard/swarmctl/internal/netutil"
	"github.com/halvard/swarmctl/internal/remote"
	"github.com/halvard/swarmctl/internal/retry"
	"github.com/halvard/swarmctl/internal/swarm"
)

const (
	joinProbeAttempts = 5
	joinProbeDelay    = 2 * time.Second
	joinProbeTimeout  = 3 * time.Second

	tokenDisplayLen = 12
)

// ClusterPhase forms the cluster: manager first (init, autolock, overlay
// network, token), then each worker in list order.
type ClusterPhase struct {
	// Probe overrides the manager-port reachability check in tests.
	// Nil means a real TCP probe.
	Probe func(ctx context.Context, host, port string, timeout time.Duration) error
}

// Name implements Phase.
func (p *ClusterPhase) Name() string { return "cluster" }

// Run implements Phase.
func (p *ClusterPhase) Run(ctx *Context) error {
	if err := p.ensureManager(ctx); err != nil {
		return err
	}
	if err := p.ensureNetwork(ctx); err != nil {
		return err
	}

	workers := ctx.Config.Workers()
	if len(workers) == 0 {
		// A manager-only cluster is a valid end state.
		return nil
	}

	if err := p.fetchToken(ctx); err != nil {
		return err
	}
	for _, worker := range workers {
		if err := p.joinWorker(ctx, worker); err != nil {
			return err
		}
	}
	return nil
}

// queryInfo asks host for its typed swarm membership view.
func (p *ClusterPhase) queryInfo(ctx *Context, host string) (swarm.Info, error) {
	result := ctx.Exec.Run(ctx, host, "query swarm state", swarm.CmdSwarmInfo)
	if result.ExitCode == -1 {
		return swarm.Info{}, transportError(host, result)
	}
	if !result.Success {
		return swarm.Info{}, &ClusterError{
			Host:      host,
			Operation: "query swarm state",
			Detail:    fmt.Sprintf("exit %d: %s", result.ExitCode, remote.Tail(result.Output)),
		}
	}
	info, err := swarm.ParseInfo(result.Output)
	if err != nil {
		return swarm.Info{}, &ClusterError{Host: host, Operation: "query swarm state", Detail: err.Error()}
	}
	return info, nil
}

func (p *ClusterPhase) ensureManager(ctx *Context) error {
	manager := ctx.Config.ManagerHost
	info, err := p.queryInfo(ctx, manager)
	if err != nil {
		return err
	}

	switch {
	case info.IsManager():
		ctx.Report.Infof(p.Name(), manager, "already an active cluster manager")
	case info.ActiveMember():
		// A member without the manager role cannot be promoted from
		// here; that means it belongs to some other cluster.
		return &ConflictError{Host: manager, Detail: "active cluster member without the manager role"}
	default:
		result := ctx.Exec.Run(ctx, manager, "initialize cluster", swarm.CmdInit(ctx.Config.ManagerAdvertiseAddr))
		if !result.Success {
			return &ClusterError{
				Host:      manager,
				Operation: "initialize cluster",
				Detail:    fmt.Sprintf("exit %d: %s", result.ExitCode, remote.Tail(result.Output)),
			}
		}
		ctx.Report.Infof(p.Name(), manager, "cluster initialized")

		info, err = p.queryInfo(ctx, manager)
		if err != nil {
			return err
		}
	}

	ctx.State.SetNodeState(manager, ClusterMember)
	if info.Cluster != nil {
		ctx.State.SetClusterID(info.Cluster.ID)
	}

	if ctx.Config.SwarmAutolock && !info.Autolocked() {
		result := ctx.Exec.Run(ctx, manager, "enable autolock", swarm.CmdAutolock)
		if !result.Success {
			// Autolock is hardening, not a formation step.
			ctx.Report.Warnf(p.Name(), manager, fmt.Sprintf("autolock could not be enabled (exit %d)", result.ExitCode))
		}
	}
	return nil
}

func (p *ClusterPhase) ensureNetwork(ctx *Context) error {
	manager := ctx.Config.ManagerHost
	name := ctx.Config.OverlayNetworkName

	list := ctx.Exec.Run(ctx, manager, "list networks", swarm.CmdNetworkList)
	if list.Success {
		for _, line := range strings.Split(list.Output, "\n") {
			if strings.TrimSpace(line) == name {
				ctx.Report.Infof(p.Name(), manager, fmt.Sprintf("overlay network %q already exists", name))
				return nil
			}
		}
	}

	result := ctx.Exec.Run(ctx, manager, "create overlay network",
		swarm.CmdNetworkCreate(name, ctx.Config.OverlayNetworkEncrypted))
	if !result.Success {
		// Every stack attaches to this network, so its absence is fatal.
		return &ClusterError{
			Host:      manager,
			Operation: "create overlay network",
			Detail:    fmt.Sprintf("exit %d: %s", result.ExitCode, remote.Tail(result.Output)),
		}
	}
	ctx.Report.Infof(p.Name(), manager, fmt.Sprintf("overlay network %q created", name))
	return nil
}

// fetchToken retrieves the worker join token exactly once per run and
// registers it for log redaction.
func (p *ClusterPhase) fetchToken(ctx *Context) error {
	manager := ctx.Config.ManagerHost
	result := ctx.Exec.Run(ctx, manager, "fetch worker join token", swarm.CmdJoinTokenWorker)
	if !result.Success {
		return &ClusterError{
			Host:      manager,
			Operation: "fetch worker join token",
			Detail:    fmt.Sprintf("exit %d: %s", result.ExitCode, remote.Tail(result.Output)),
		}
	}

	token := strings.TrimSpace(result.Output)
	if token == "" {
		return &ClusterError{Host: manager, Operation: "fetch worker join token", Detail: "manager returned an empty token"}
	}
	if err := ctx.State.SetJoinToken(token); err != nil {
		return &ClusterError{Host: manager, Operation: "fetch worker join token", Detail: err.Error()}
	}
	ctx.Exec.Redact(token, displayToken(token))
	return nil
}

func (p *ClusterPhase) joinWorker(ctx *Context, worker string) error {
	endpoint := ctx.Config.ManagerEndpoint()

	info, err := p.queryInfo(ctx, worker)
	if err != nil {
		return err
	}

	if info.ActiveMember() {
		sameCluster := info.ManagerAddr() == endpoint
		if sameCluster && info.Cluster != nil && ctx.State.ClusterID() != "" {
			// Best-effort identity check on top of the address match.
			sameCluster = info.Cluster.ID == ctx.State.ClusterID()
		}
		if sameCluster {
			ctx.State.SetNodeState(worker, ClusterMember)
			ctx.Report.Infof(p.Name(), worker, "already joined to the target cluster")
			return nil
		}

		// Joined to some other cluster: an explicit leave must precede
		// the join, never a join on top of foreign membership.
		leave := ctx.Exec.Run(ctx, worker, "leave foreign cluster", swarm.CmdLeave)
		if !leave.Success {
			return &ClusterError{
				Host:      worker,
				Operation: "leave foreign cluster",
				Detail:    fmt.Sprintf("joined to %s, leave exited %d: %s", info.ManagerAddr(), leave.ExitCode, remote.Tail(leave.Output)),
			}
		}
		ctx.State.SetNodeState(worker, EngineReady)
		ctx.Report.Warnf(p.Name(), worker, fmt.Sprintf("left foreign cluster at %s", info.ManagerAddr()))
	}

	if err := p.awaitManagerPort(ctx); err != nil {
		return err
	}

	join := ctx.Exec.Run(ctx, worker, "join cluster", swarm.CmdJoin(ctx.State.JoinToken(), endpoint))
	if !join.Success {
		return &ClusterError{
			Host:      worker,
			Operation: "join cluster",
			Detail:    fmt.Sprintf("manager rejected the join (exit %d): %s", join.ExitCode, remote.Tail(join.Output)),
		}
	}

	// A zero exit is not enough; membership must actually report active.
	after, err := p.queryInfo(ctx, worker)
	if err != nil {
		return err
	}
	if !after.ActiveMember() {
		return &ClusterError{
			Host:      worker,
			Operation: "join cluster",
			Detail:    fmt.Sprintf("join exited 0 but membership is %q", after.LocalNodeState),
		}
	}

	ctx.State.SetNodeState(worker, ClusterMember)
	ctx.Report.Infof(p.Name(), worker, "joined cluster")
	return nil
}

func (p *ClusterPhase) awaitManagerPort(ctx *Context) error {
	probe := p.Probe
	if probe == nil {
		probe = netutil.Probe
	}
	addr := ctx.Config.ManagerAdvertiseAddr
	err := retry.Do(ctx, func() error {
		return probe(ctx, addr, config.SwarmControlPort, joinProbeTimeout)
	}, retry.WithAttempts(joinProbeAttempts), retry.WithDelay(joinProbeDelay))
	if err != nil {
		return &JoinTimeoutError{
			Endpoint: ctx.Config.ManagerEndpoint(),
			Attempts: joinProbeAttempts,
			Err:      err,
		}
	}
	return nil
}

// displayToken truncates a join token for logs. Never log it in full.
func displayToken(token string) string {
	if len(token) <= tokenDisplayLen {
		return "…"
	}
	return token[:tokenDisplayLen] + "…"
}

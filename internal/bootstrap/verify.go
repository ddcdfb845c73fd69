package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/halvard/swarmctl/internal/netutil"
	"github.com/halvard/swarmctl/internal/swarm"
)

// VerifyPhase inspects the converged cluster: node membership as the
// manager sees it, plus connectivity probes against each deployed
// stack's published ports. It reports, never repairs.
type VerifyPhase struct {
	// Probe overrides the connectivity check; nil means a real TCP dial.
	Probe func(ctx context.Context, host, port string, timeout time.Duration) error

	// ProbeAll probes every enabled stack instead of only the ones a
	// deploy phase recorded, for standalone verification runs.
	ProbeAll bool
}

// Name implements Phase.
func (p *VerifyPhase) Name() string { return "verify" }

// Run implements Phase.
func (p *VerifyPhase) Run(ctx *Context) error {
	if err := p.listNodes(ctx); err != nil {
		return err
	}
	p.probeStacks(ctx)

	ctx.Report.States = ctx.State.Nodes()
	return nil
}

// listNodes asks the manager for the cluster roster. A manager that
// cannot answer over SSH aborts; a failed listing is only a warning,
// the cluster itself was already converged by earlier phases.
func (p *VerifyPhase) listNodes(ctx *Context) error {
	manager := ctx.Config.ManagerHost
	result := ctx.Exec.Run(ctx, manager, "list cluster nodes", swarm.CmdNodeList)
	if result.ExitCode == -1 {
		return transportError(manager, result)
	}
	if !result.Success {
		ctx.Report.Warnf(p.Name(), manager, fmt.Sprintf("node listing exited %d", result.ExitCode))
		return nil
	}

	nodes, err := swarm.ParseNodes(result.Output)
	if err != nil {
		ctx.Report.Warnf(p.Name(), manager, fmt.Sprintf("node listing unparseable: %v", err))
		return nil
	}
	ctx.Report.Nodes = nodes

	expected := len(ctx.Config.Hosts())
	if len(nodes) != expected {
		ctx.Report.Warnf(p.Name(), manager,
			fmt.Sprintf("cluster has %d nodes, expected %d", len(nodes), expected))
	} else {
		ctx.Report.Infof(p.Name(), manager, fmt.Sprintf("cluster has all %d nodes", expected))
	}
	return nil
}

// probeStacks dials each deployed stack's published ports on the manager
// address. Outcomes land in the report; a closed port is not an error.
func (p *VerifyPhase) probeStacks(ctx *Context) {
	probe := p.Probe
	if probe == nil {
		probe = netutil.Probe
	}

	deployed := map[string]bool{}
	for _, s := range ctx.Report.Stacks {
		deployed[s.Name] = s.Deployed
	}

	for _, spec := range stackSpecs(ctx.Config) {
		if !p.ProbeAll && !deployed[spec.name] {
			continue
		}
		if p.ProbeAll && !spec.enabled {
			continue
		}
		for _, port := range spec.ports {
			err := probe(ctx, ctx.Config.ManagerHost, port, netutil.DefaultProbeTimeout)
			open := err == nil
			ctx.Report.Probes = append(ctx.Report.Probes, ProbeResult{Stack: spec.name, Port: port, Open: open})
			if !open {
				ctx.Report.Infof(p.Name(), ctx.Config.ManagerHost,
					fmt.Sprintf("port %s (%s) not reachable yet", port, spec.name))
			}
		}
	}
}

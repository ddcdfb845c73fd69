package bootstrap

import (
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/halvard/swarmctl/internal/config"
	"github.com/halvard/swarmctl/internal/remote"
	"github.com/halvard/swarmctl/internal/retry"
	"github.com/halvard/swarmctl/internal/swarm"
)

const (
	defaultPollAttempts = 30
	defaultPollDelay    = 2 * time.Second
)

var errNotConverged = errors.New("no service at replica target yet")

// stackSpec binds a stack name to its embedded compose spec, its
// interpolation environment, and the ports probed after deployment.
type stackSpec struct {
	name    string
	asset   string
	enabled bool
	env     map[string]string
	ports   []string
}

// stackSpecs returns the three application stacks in deployment order.
func stackSpecs(cfg *config.Config) []stackSpec {
	common := map[string]string{
		"NETWORK_NAME": cfg.OverlayNetworkName,
		"DATA_DIR":     cfg.RemoteDataDir,
	}
	withCommon := func(extra map[string]string) map[string]string {
		env := map[string]string{}
		for k, v := range common {
			env[k] = v
		}
		for k, v := range extra {
			env[k] = v
		}
		return env
	}

	return []stackSpec{
		{
			name:    "registry",
			asset:   "registry.yml",
			enabled: cfg.DeployRegistryStack,
			env:     withCommon(map[string]string{"REGISTRY_PORT": cfg.RegistryPort}),
			ports:   []string{cfg.RegistryPort},
		},
		{
			name:    "ingress",
			asset:   "ingress.yml",
			enabled: cfg.DeployIngressStack,
			env: withCommon(map[string]string{
				"HTTP_PORT":  cfg.HTTPPort,
				"HTTPS_PORT": cfg.HTTPSPort,
			}),
			ports: []string{cfg.HTTPPort, cfg.HTTPSPort},
		},
		{
			name:    "monitoring",
			asset:   "monitoring.yml",
			enabled: cfg.DeployMonitoringStack,
			env: withCommon(map[string]string{
				"DASHBOARD_PORT": cfg.DashboardPort,
				"METRICS_PORT":   cfg.MetricsPort,
				"ADMIN_USER":     cfg.DashboardAdminUser,
				"ADMIN_PASSWORD": cfg.DashboardAdminPassword,
			}),
			ports: []string{cfg.DashboardPort, cfg.MetricsPort},
		},
	}
}

// StackPhase deploys each enabled stack on the manager and polls until
// its services converge or the attempt budget runs out. A slow stack is
// degradation, never a run failure.
type StackPhase struct {
	// PollAttempts and PollDelay override the readiness budget; zero
	// values take the defaults (30 attempts, 2s apart).
	PollAttempts int
	PollDelay    time.Duration
}

// Name implements Phase.
func (p *StackPhase) Name() string { return "stacks" }

// Run implements Phase.
func (p *StackPhase) Run(ctx *Context) error {
	for _, spec := range stackSpecs(ctx.Config) {
		if !spec.enabled {
			ctx.Report.Infof(p.Name(), ctx.Config.ManagerHost, fmt.Sprintf("stack %q disabled, skipping", spec.name))
			continue
		}
		status := p.deployAndAwait(ctx, spec)
		ctx.Report.Stacks = append(ctx.Report.Stacks, status)
	}
	return nil
}

func (p *StackPhase) deployAndAwait(ctx *Context, spec stackSpec) StackStatus {
	manager := ctx.Config.ManagerHost
	status := StackStatus{Name: spec.name}

	specPath := path.Join(ctx.Config.RemoteSetupDir, spec.asset)
	if err := ctx.Exec.Upload(ctx, manager, specPath, Asset(spec.asset), 0o644); err != nil {
		ctx.Report.Errorf(p.Name(), manager, fmt.Sprintf("stack %q spec upload failed: %v", spec.name, err))
		return status
	}

	deploy := ctx.Exec.Run(ctx, manager, fmt.Sprintf("deploy stack %s", spec.name),
		swarm.CmdStackDeploy(spec.name, specPath, spec.env))
	if !deploy.Success {
		ctx.Report.Errorf(p.Name(), manager,
			fmt.Sprintf("stack %q deploy exited %d: %s", spec.name, deploy.ExitCode, remote.Tail(deploy.Output)))
		return status
	}
	status.Deployed = true

	p.await(ctx, spec, &status)
	return status
}

// await polls the stack's services until any of them reports its replica
// target, or the budget is exhausted.
func (p *StackPhase) await(ctx *Context, spec stackSpec, status *StackStatus) {
	attempts := p.PollAttempts
	if attempts <= 0 {
		attempts = defaultPollAttempts
	}
	delay := p.PollDelay
	if delay <= 0 {
		delay = defaultPollDelay
	}

	manager := ctx.Config.ManagerHost
	err := retry.Do(ctx, func() error {
		status.Attempts++
		result := ctx.Exec.Run(ctx, manager, fmt.Sprintf("poll stack %s", spec.name), swarm.CmdServiceList(spec.name))
		if !result.Success {
			return fmt.Errorf("service listing exited %d", result.ExitCode)
		}
		services, err := swarm.ParseServices(result.Output)
		if err != nil {
			return err
		}
		for _, svc := range services {
			replicas, ok := swarm.ParseReplicas(svc.Replicas)
			if ok && replicas.TargetReached() {
				status.Converged = true
				status.Service = svc.Name
				status.Replicas = svc.Replicas
				return nil
			}
		}
		return errNotConverged
	}, retry.WithAttempts(attempts), retry.WithDelay(delay))

	if err != nil {
		// Degraded, not fatal: independent stacks still deploy.
		ctx.Report.Warnf(p.Name(), manager,
			fmt.Sprintf("stack %q did not converge within %d attempts", spec.name, attempts))
		ctx.Log.Error().Str("stack", spec.name).Int("attempts", attempts).Msg("readiness budget exhausted")
		return
	}
	ctx.Report.Infof(p.Name(), manager,
		fmt.Sprintf("stack %q converged (%s at %s)", spec.name, status.Service, status.Replicas))
}

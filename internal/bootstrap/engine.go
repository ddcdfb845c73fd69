package bootstrap

import (
	"fmt"
	"path"
	"strings"

	"github.com/halvard/swarmctl/internal/config"
	"github.com/halvard/swarmctl/internal/remote"
	"github.com/halvard/swarmctl/internal/sshx"
	"github.com/halvard/swarmctl/internal/swarm"
)

const installScriptName = "install-engine.sh"

// EnginePhase drives every host to EngineReady: probe the engine daemon,
// install it where absent, and abort on any host that stays broken.
type EnginePhase struct{}

// Name implements Phase.
func (p *EnginePhase) Name() string { return "engine" }

// Run implements Phase. Hosts are handled strictly in order, manager
// first; a single failed host fails the run before any cluster
// operation.
func (p *EnginePhase) Run(ctx *Context) error {
	for _, host := range ctx.Config.Hosts() {
		if err := p.ensureEngine(ctx, host); err != nil {
			return err
		}
	}
	return nil
}

func (p *EnginePhase) ensureEngine(ctx *Context, host config.Host) error {
	probe := ctx.Exec.Run(ctx, host.Addr, "probe container engine", swarm.CmdEngineVersion)
	if probe.ExitCode == -1 {
		return transportError(host.Addr, probe)
	}
	if probe.Success {
		ctx.State.SetNodeState(host.Addr, EngineReady)
		ctx.Report.Infof(p.Name(), host.Addr, "engine already present, skipping install")
		return nil
	}

	ctx.State.SetNodeState(host.Addr, EngineAbsent)
	if err := p.install(ctx, host); err != nil {
		return err
	}

	// The daemon must answer after install; a host that stays broken
	// must never reach cluster operations.
	verify := ctx.Exec.Run(ctx, host.Addr, "verify engine daemon", swarm.CmdEngineVersion)
	if verify.ExitCode == -1 {
		return transportError(host.Addr, verify)
	}
	if !verify.Success {
		return &InstallError{
			Host:   host.Addr,
			Detail: fmt.Sprintf("daemon unreachable after install (exit %d): %s", verify.ExitCode, remote.Tail(verify.Output)),
		}
	}

	ctx.State.SetNodeState(host.Addr, EngineReady)
	ctx.Report.Infof(p.Name(), host.Addr, "engine installed")
	return nil
}

func (p *EnginePhase) install(ctx *Context, host config.Host) error {
	scriptPath := path.Join(ctx.Config.RemoteSetupDir, installScriptName)
	if err := ctx.Exec.Upload(ctx, host.Addr, scriptPath, Asset(installScriptName), 0o755); err != nil {
		return &TransportError{Host: host.Addr, Err: err}
	}

	install := ctx.Exec.Run(ctx, host.Addr, "install container engine",
		fmt.Sprintf("sudo DATA_DIR=%s bash %s", sshx.Quote(ctx.Config.RemoteDataDir), sshx.Quote(scriptPath)))
	if install.ExitCode == -1 {
		return transportError(host.Addr, install)
	}
	if !install.Success {
		return &InstallError{
			Host:   host.Addr,
			Detail: fmt.Sprintf("install script exited %d: %s", install.ExitCode, strings.TrimSpace(remote.Tail(install.Output))),
		}
	}
	return nil
}

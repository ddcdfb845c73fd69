package swarm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/halvard/swarmctl/internal/sshx"
)

// Fixed queries. All run under sudo so the bootstrap works before the SSH
// user is in the docker group.
const (
	// CmdEngineVersion probes both binary presence and daemon
	// reachability; it fails unless the daemon answers.
	CmdEngineVersion = `sudo docker version --format '{{.Server.Version}}'`

	// CmdSwarmInfo returns the typed membership view.
	CmdSwarmInfo = `sudo docker info --format '{{json .Swarm}}'`

	// CmdJoinTokenWorker prints the worker join token, nothing else.
	CmdJoinTokenWorker = `sudo docker swarm join-token -q worker`

	// CmdLeave forces the node out of its current cluster.
	CmdLeave = `sudo docker swarm leave --force`

	// CmdAutolock enables managed encryption-key locking.
	CmdAutolock = `sudo docker swarm update --autolock=true`

	// CmdNetworkList prints every network name, one per line; callers
	// match exactly.
	CmdNetworkList = `sudo docker network ls --format '{{.Name}}'`

	// CmdNodeList prints cluster membership as JSON lines.
	CmdNodeList = `sudo docker node ls --format '{{json .}}'`
)

// CmdInit initializes a new cluster advertising addr. Interpolated values
// are shell-quoted here and in every builder below; config values such as
// passwords and network names must never reach the remote shell as syntax.
func CmdInit(advertiseAddr string) string {
	return fmt.Sprintf(`sudo docker swarm init --advertise-addr %s`, sshx.Quote(advertiseAddr))
}

// CmdJoin joins the cluster behind endpoint using token.
func CmdJoin(token, endpoint string) string {
	return fmt.Sprintf(`sudo docker swarm join --token %s %s`, sshx.Quote(token), sshx.Quote(endpoint))
}

// CmdNetworkCreate creates an attachable overlay network.
func CmdNetworkCreate(name string, encrypted bool) string {
	var b strings.Builder
	b.WriteString(`sudo docker network create --driver overlay --attachable`)
	if encrypted {
		b.WriteString(` --opt encrypted`)
	}
	b.WriteString(" " + sshx.Quote(name))
	return b.String()
}

// CmdStackDeploy deploys specPath as stack name, with env interpolation
// values passed on the command line in sorted key order.
func CmdStackDeploy(name, specPath string, env map[string]string) string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("sudo")
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%s", k, sshx.Quote(env[k]))
	}
	fmt.Fprintf(&b, ` docker stack deploy --compose-file %s %s`, sshx.Quote(specPath), sshx.Quote(name))
	return b.String()
}

// CmdServiceList lists services under the stack's name prefix as JSON
// lines.
func CmdServiceList(stack string) string {
	return fmt.Sprintf(`sudo docker service ls --filter %s --format '{{json .}}'`, sshx.Quote("name="+stack+"_"))
}

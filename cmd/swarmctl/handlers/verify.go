package handlers

import (
	"context"

	"github.com/halvard/swarmctl/internal/bootstrap"
)

// Verify inspects the cluster without changing it: node roster from the
// manager plus connectivity probes against every enabled stack's ports.
func Verify(ctx context.Context, opts UpOptions) error {
	return run(ctx, opts, []bootstrap.Phase{&bootstrap.VerifyPhase{ProbeAll: true}})
}

package bootstrap

import (
	"fmt"
	"time"
)

// Phase is one sequential stage of the bootstrap.
type Phase interface {
	// Name returns the stage's short name, used in logs and events.
	Name() string

	// Run executes the stage. A returned error is fatal for the run.
	Run(ctx *Context) error
}

// Phases returns the full bootstrap pipeline in execution order.
func Phases() []Phase {
	return []Phase{
		&EnginePhase{},
		&ClusterPhase{},
		&StackPhase{},
		&VerifyPhase{},
	}
}

// RunPhases executes phases sequentially, stopping at the first fatal
// error or context cancellation.
func RunPhases(ctx *Context, phases []Phase) error {
	start := time.Now()
	ctx.Log.Info().Int("phases", len(phases)).Msg("starting bootstrap")

	// The summary shows how far each host got even when a phase fails
	// partway through, so the snapshot happens on every exit path.
	defer func() { ctx.Report.States = ctx.State.Nodes() }()

	for i, phase := range phases {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("bootstrap interrupted before %s phase: %w", phase.Name(), err)
		}

		phaseStart := time.Now()
		logger := ctx.Log.With().Str("phase", phase.Name()).Logger()
		logger.Info().Msgf("phase %d/%d starting", i+1, len(phases))

		if err := phase.Run(ctx); err != nil {
			logger.Error().Err(err).Msg("phase failed")
			return fmt.Errorf("%s phase failed: %w", phase.Name(), err)
		}

		logger.Info().Dur("elapsed", time.Since(phaseStart).Round(time.Millisecond)).Msg("phase completed")
	}

	ctx.Log.Info().Dur("elapsed", time.Since(start).Round(time.Millisecond)).Msg("bootstrap completed")
	return nil
}

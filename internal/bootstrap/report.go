package bootstrap

import (
	"github.com/halvard/swarmctl/internal/remote"
	"github.com/halvard/swarmctl/internal/swarm"
)

// EventLevel classifies a report event.
type EventLevel string

const (
	// LevelError marks a failure of some step.
	LevelError EventLevel = "error"
	// LevelWarning marks a degradation that did not stop the run.
	LevelWarning EventLevel = "warning"
	// LevelInfo marks an informational outcome.
	LevelInfo EventLevel = "info"
)

// Event is one noteworthy run outcome beyond raw execution results.
type Event struct {
	Level   EventLevel
	Stage   string
	Host    string
	Message string
}

// StackStatus is the final convergence state of one stack.
type StackStatus struct {
	Name      string
	Deployed  bool
	Converged bool
	Attempts  int
	Service   string // first service observed at target
	Replicas  string // its replica string, e.g. "3/3"
}

// ProbeResult is one connectivity probe outcome. Purely informational.
type ProbeResult struct {
	Stack string
	Port  string
	Open  bool
}

// Report aggregates everything the run observed. It implements
// remote.Recorder so the execution engine feeds it directly.
type Report struct {
	Results []remote.Result
	Events  []Event
	Stacks  []StackStatus
	Probes  []ProbeResult
	Nodes   []swarm.Node
	States  map[string]NodeState
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{States: map[string]NodeState{}}
}

// Record implements remote.Recorder.
func (r *Report) Record(result remote.Result) {
	r.Results = append(r.Results, result)
}

// Errorf records an error-level event.
func (r *Report) Errorf(stage, host, message string) {
	r.Events = append(r.Events, Event{Level: LevelError, Stage: stage, Host: host, Message: message})
}

// Warnf records a warning-level event.
func (r *Report) Warnf(stage, host, message string) {
	r.Events = append(r.Events, Event{Level: LevelWarning, Stage: stage, Host: host, Message: message})
}

// Infof records an info-level event.
func (r *Report) Infof(stage, host, message string) {
	r.Events = append(r.Events, Event{Level: LevelInfo, Stage: stage, Host: host, Message: message})
}

// Errors counts error-level events.
func (r *Report) Errors() int {
	return r.count(LevelError)
}

// Warnings counts warning-level events.
func (r *Report) Warnings() int {
	return r.count(LevelWarning)
}

func (r *Report) count(level EventLevel) int {
	n := 0
	for _, e := range r.Events {
		if e.Level == level {
			n++
		}
	}
	return n
}

// FailedOps counts execution results that did not succeed.
func (r *Report) FailedOps() int {
	n := 0
	for _, result := range r.Results {
		if !result.Success {
			n++
		}
	}
	return n
}

// Timeouts lists the stacks that exhausted their readiness budget.
func (r *Report) Timeouts() []string {
	var names []string
	for _, s := range r.Stacks {
		if s.Deployed && !s.Converged {
			names = append(names, s.Name)
		}
	}
	return names
}

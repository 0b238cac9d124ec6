package pipeline

import "github.com/hupe1980/ragmesh/core"

// State is the lifecycle state of a pipeline run.
type State string

const (
	StateIdle       State = "idle"
	StateIngesting  State = "ingesting"
	StateRetrieving State = "retrieving"
	StateResponding State = "responding"
	StateCompleted  State = "completed"
	StateErrored    State = "errored"
)

// Terminal reports whether s ends a run.
func (s State) Terminal() bool { return s == StateCompleted || s == StateErrored }

// CanTransition reports whether a run may move from s to next. Errored is
// reachable from every non-terminal state.
func (s State) CanTransition(next State) bool {
	if s.Terminal() {
		return false
	}
	if next == StateErrored {
		return true
	}
	switch s {
	case StateIdle:
		return next == StateIngesting
	case StateIngesting:
		return next == StateRetrieving
	case StateRetrieving:
		return next == StateResponding
	case StateResponding:
		return next == StateCompleted
	default:
		return false
	}
}

// stageState maps an agent to the state the run is in while it executes.
func stageState(agent core.AgentID) State {
	switch agent {
	case core.AgentIngestion:
		return StateIngesting
	case core.AgentRetrieval:
		return StateRetrieving
	default:
		return StateResponding
	}
}

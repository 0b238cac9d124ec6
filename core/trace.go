package core

import (
	"fmt"
	"time"
)

// StepStatus is the execution status of a single trace step.
type StepStatus string

const (
	// StatusPending marks a step that was recorded but has not started.
	StatusPending StepStatus = "pending"
	// StatusRunning marks a step whose collaborator call is in flight.
	StatusRunning StepStatus = "running"
	// StatusCompleted marks a step that finished successfully.
	StatusCompleted StepStatus = "completed"
	// StatusError marks a step that failed or was aborted.
	StatusError StepStatus = "error"
)

// Valid reports whether s is a known status.
func (s StepStatus) Valid() bool {
	switch s {
	case StatusPending, StatusRunning, StatusCompleted, StatusError:
		return true
	default:
		return false
	}
}

// Terminal reports whether s can no longer change.
func (s StepStatus) Terminal() bool { return s == StatusCompleted || s == StatusError }

// CanTransition reports whether a step may move from s to next. Statuses
// only move forward: pending -> running -> completed|error, with pending
// allowed to resolve directly.
func (s StepStatus) CanTransition(next StepStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusRunning || next == StatusCompleted || next == StatusError
	case StatusRunning:
		return next == StatusCompleted || next == StatusError
	default:
		return false
	}
}

// TraceStep records the execution of one pipeline stage within a turn.
type TraceStep struct {
	Agent     AgentID       `json:"agent"`
	Action    string        `json:"action"`
	Status    StepStatus    `json:"status"`
	Details   string        `json:"details,omitempty"`
	StartedAt time.Time     `json:"started_at,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
}

// ValidateTrace checks the structural invariants of a trace: known agents
// and statuses, at most one step per agent and steps in pipeline order.
func ValidateTrace(trace []TraceStep) error {
	last := -1
	for i, step := range trace {
		if !step.Agent.Valid() {
			return fmt.Errorf("trace step %d: unknown agent %q", i, step.Agent)
		}
		if !step.Status.Valid() {
			return fmt.Errorf("trace step %d: unknown status %q", i, step.Status)
		}
		pos := step.Agent.Position()
		if pos <= last {
			return fmt.Errorf("trace step %d: agent %s out of pipeline order", i, step.Agent)
		}
		last = pos
	}
	return nil
}

func cloneTrace(trace []TraceStep) []TraceStep {
	if trace == nil {
		return nil
	}
	cp := make([]TraceStep, len(trace))
	copy(cp, trace)
	return cp
}

package core

import (
	"errors"
	"fmt"
)

var (
	// ErrPipelineBusy is returned when a query is submitted while another
	// run is still active.
	ErrPipelineBusy = errors.New("pipeline busy")

	// ErrStageFailed matches every *StageError via errors.Is.
	ErrStageFailed = errors.New("pipeline stage failed")

	// ErrAborted is returned when a run is cancelled between stages.
	ErrAborted = errors.New("pipeline run aborted")

	// ErrEmptyQuery is returned for blank queries.
	ErrEmptyQuery = errors.New("empty query")

	// ErrInvalidDocument is returned by intake for files outside the allow-list.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidTurn is returned when a turn violates its invariants.
	ErrInvalidTurn = errors.New("invalid turn")
)

// StageError reports the failure of an external collaborator call.
type StageError struct {
	Agent AgentID
	Cause error
}

// Error implements error.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Agent, e.Cause)
}

// Unwrap returns the collaborator error.
func (e *StageError) Unwrap() error { return e.Cause }

// Is makes errors.Is(err, ErrStageFailed) hold for every StageError.
func (e *StageError) Is(target error) bool { return target == ErrStageFailed }

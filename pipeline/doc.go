// Package pipeline drives one user query through the three agent stages
// (ingestion, retrieval, response), records the per-stage trace, and
// commits the outcome to the conversation log.
//
// A Controller runs at most one query at a time. Submitting while a run is
// active fails fast with core.ErrPipelineBusy. Stages execute strictly in
// order; a failing collaborator halts the run with a *core.StageError and a
// system notice in the log, while cancellation between stages ends the run
// with core.ErrAborted and leaves the user turn unanswered.
package pipeline

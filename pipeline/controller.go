package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/ragmesh/agent"
	"github.com/hupe1980/ragmesh/core"
	"github.com/hupe1980/ragmesh/logging"
)

// ErrRunNotFound is returned by Cancel when no active run has the given id.
var ErrRunNotFound = errors.New("run not found")

var errEmptyAnswer = errors.New("generator returned an empty answer")

var (
	runningAction = map[core.AgentID]string{
		core.AgentIngestion: "Parsing documents",
		core.AgentRetrieval: "Searching vector index",
		core.AgentResponse:  "Generating response",
	}
	completedAction = map[core.AgentID]string{
		core.AgentIngestion: "Document parsing completed",
		core.AgentRetrieval: "Vector search executed",
		core.AgentResponse:  "LLM response generated",
	}
	failedAction = map[core.AgentID]string{
		core.AgentIngestion: "Document parsing failed",
		core.AgentRetrieval: "Vector search failed",
		core.AgentResponse:  "LLM response failed",
	}
)

const abortedDetails = "run aborted"

// Options holds dependency and configuration overrides passed to New().
type Options struct {
	// Logger receives run and stage records. A *logging.StructuredLogger
	// additionally gets LogStage/LogRun summaries.
	Logger logging.Logger
	// Callbacks are invoked around every stage.
	Callbacks *CallbackManager
}

// Run is a snapshot of one pipeline run.
type Run struct {
	ID         string           `json:"id"`
	Query      string           `json:"query"`
	State      State            `json:"state"`
	Trace      []core.TraceStep `json:"trace"`
	Sources    []string         `json:"sources,omitempty"`
	Answer     *core.Turn       `json:"answer,omitempty"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at,omitempty"`
}

func (r *Run) clone() *Run {
	cp := *r
	cp.Trace = append([]core.TraceStep(nil), r.Trace...)
	cp.Sources = append([]string(nil), r.Sources...)
	if r.Answer != nil {
		a := r.Answer.Clone()
		cp.Answer = &a
	}
	return &cp
}

// Controller runs queries through the ingestion, retrieval and response
// collaborators. Public methods are safe for concurrent use; only one run
// executes at a time.
type Controller struct {
	log       core.ConversationLog
	registry  core.DocumentRegistry
	tracker   core.AgentTracker
	ingestor  core.Ingestor
	retriever core.Retriever
	generator core.Generator

	logger    logging.Logger
	callbacks *CallbackManager

	mu      sync.Mutex
	current *Run
	cancel  context.CancelFunc
}

// New constructs a Controller over the given stores and collaborators.
func New(
	log core.ConversationLog,
	registry core.DocumentRegistry,
	tracker core.AgentTracker,
	ingestor core.Ingestor,
	retriever core.Retriever,
	generator core.Generator,
	optFns ...func(o *Options),
) *Controller {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Controller{
		log:       log,
		registry:  registry,
		tracker:   tracker,
		ingestor:  ingestor,
		retriever: retriever,
		generator: generator,
		logger:    opts.Logger,
		callbacks: opts.Callbacks,
	}
}

// Submit runs query through the pipeline and blocks until the run ends.
//
// On success the returned run carries the assistant turn that was appended
// to the log. On a stage failure the run and a *core.StageError are
// returned; on cancellation the run and an error matching core.ErrAborted.
// A concurrent Submit fails immediately with core.ErrPipelineBusy and a nil
// run, without touching the log, whatever the query. Outside a run a blank
// query fails with core.ErrEmptyQuery.
func (c *Controller) Submit(ctx context.Context, query string) (*Run, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	run := &Run{ID: uuid.NewString(), Query: query, State: StateIdle, StartedAt: time.Now().UTC()}

	c.mu.Lock()
	if c.current != nil {
		c.mu.Unlock()
		return nil, core.ErrPipelineBusy
	}
	c.current = run
	c.cancel = cancel
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.current = nil
		c.cancel = nil
		c.mu.Unlock()
	}()

	if strings.TrimSpace(query) == "" {
		return nil, core.ErrEmptyQuery
	}
	userTurn, err := core.NewTurn(core.RoleUser, query)
	if err != nil {
		return nil, err
	}

	if err := c.log.Append(userTurn); err != nil {
		c.update(func(r *Run) { r.State = StateErrored; r.FinishedAt = time.Now().UTC() })
		return c.snapshot(run), fmt.Errorf("append user turn: %w", err)
	}

	c.logger.Info("Pipeline run started", "run_id", run.ID, "documents", c.registry.Len())
	c.tracker.MarkActive(core.PipelineOrder()...)
	defer c.tracker.MarkIdle()

	c.update(func(r *Run) {
		r.Trace = append(r.Trace, core.TraceStep{Agent: core.AgentIngestion, Status: core.StatusPending})
	})

	err = c.execute(runCtx, run)
	c.finish(run, err)
	return c.snapshot(run), err
}

func (c *Controller) execute(ctx context.Context, run *Run) error {
	var ingested core.IngestResult
	err := c.runStage(ctx, run, core.AgentIngestion, func(ctx context.Context) (string, error) {
		res, err := c.ingestor.Ingest(ctx, c.registry.List())
		if err != nil {
			return "", err
		}
		ingested = res
		return fmt.Sprintf("%d chunks indexed from %d documents", res.TotalChunks, len(res.Documents)), nil
	})
	if err != nil {
		return err
	}

	var retrieved core.Retrieval
	err = c.runStage(ctx, run, core.AgentRetrieval, func(ctx context.Context) (string, error) {
		res, err := c.retriever.Retrieve(ctx, run.Query, ingested)
		if err != nil {
			return "", err
		}
		retrieved = res
		return fmt.Sprintf("%d relevant chunks found", len(res.Chunks)), nil
	})
	if err != nil {
		return err
	}
	sources := retrieved.Sources()
	c.update(func(r *Run) { r.Sources = sources })

	var answer string
	err = c.runStage(ctx, run, core.AgentResponse, func(ctx context.Context) (string, error) {
		gen, err := c.generator.Generate(ctx, run.Query, retrieved.Chunks)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(gen.Text) == "" {
			return "", errEmptyAnswer
		}
		answer = gen.Text
		return "", nil
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	trace := append([]core.TraceStep(nil), run.Trace...)
	c.mu.Unlock()

	turn, err := core.NewTurn(core.RoleAssistant, answer, core.WithSources(sources...), core.WithTrace(trace))
	if err != nil {
		return fmt.Errorf("build answer: %w", err)
	}
	if err := c.log.Append(turn); err != nil {
		return fmt.Errorf("append answer: %w", err)
	}
	c.update(func(r *Run) { r.Answer = &turn })
	return nil
}

// runStage executes one stage and records its step. fn returns the step
// details on success.
func (c *Controller) runStage(ctx context.Context, run *Run, id core.AgentID, fn func(ctx context.Context) (string, error)) error {
	if err := ctx.Err(); err != nil {
		return c.abortStep(run, id, err)
	}

	start := time.Now()
	step := c.setStep(run, id, core.StatusRunning, runningAction[id], "", start, 0)
	c.update(func(r *Run) { r.State = stageState(id) })

	sc := &StageContext{RunID: run.ID, Query: run.Query, Agent: id, Step: step}
	err := c.callbacks.ExecuteCallbacks(ctx, CallbackBeforeStage, sc)
	var details string
	if err == nil {
		details, err = fn(ctx)
	}
	dur := time.Since(start)

	if err != nil {
		if ctx.Err() != nil {
			return c.abortStep(run, id, ctx.Err())
		}
		stageErr := &core.StageError{Agent: id, Cause: err}
		sc.Step = c.setStep(run, id, core.StatusError, failedAction[id], err.Error(), start, dur)
		sc.Err = stageErr
		c.logStage(run.ID, id, dur, stageErr)
		if cbErr := c.callbacks.ExecuteCallbacks(ctx, CallbackOnError, sc); cbErr != nil {
			c.logger.Warn("on_error callback failed", "run_id", run.ID, "agent", string(id), "error", cbErr.Error())
		}
		return stageErr
	}

	sc.Step = c.setStep(run, id, core.StatusCompleted, completedAction[id], details, start, dur)
	c.logStage(run.ID, id, dur, nil)
	if cbErr := c.callbacks.ExecuteCallbacks(ctx, CallbackAfterStage, sc); cbErr != nil {
		c.logger.Warn("after_stage callback failed", "run_id", run.ID, "agent", string(id), "error", cbErr.Error())
	}
	return nil
}

// abortStep marks the step of the interrupted stage as error.
func (c *Controller) abortStep(run *Run, id core.AgentID, cause error) error {
	c.mu.Lock()
	action := runningAction[id]
	for _, s := range run.Trace {
		if s.Agent == id && s.Action != "" {
			action = s.Action
		}
	}
	c.mu.Unlock()
	c.setStep(run, id, core.StatusError, action, abortedDetails, time.Time{}, 0)
	return fmt.Errorf("%w: %w", core.ErrAborted, cause)
}

// setStep moves the step of agent id to status, appending it when the
// stage has no step yet. Transitions that would move a status backwards
// are ignored.
func (c *Controller) setStep(run *Run, id core.AgentID, status core.StepStatus, action, details string, start time.Time, dur time.Duration) core.TraceStep {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := -1
	for i := range run.Trace {
		if run.Trace[i].Agent == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		run.Trace = append(run.Trace, core.TraceStep{Agent: id, Status: core.StatusPending})
		idx = len(run.Trace) - 1
	}

	step := &run.Trace[idx]
	if !step.Status.CanTransition(status) {
		c.logger.Warn("ignored trace transition", "run_id", run.ID, "agent", string(id), "from", string(step.Status), "to", string(status))
		return *step
	}
	step.Status = status
	step.Action = action
	step.Details = details
	if !start.IsZero() {
		step.StartedAt = start.UTC()
	}
	if dur > 0 {
		step.Duration = dur
	}
	return *step
}

func (c *Controller) finish(run *Run, err error) {
	state := StateCompleted
	if err != nil {
		state = StateErrored
	}
	c.update(func(r *Run) {
		if r.State.CanTransition(state) {
			r.State = state
		}
		r.FinishedAt = time.Now().UTC()
	})

	var stageErr *core.StageError
	if errors.As(err, &stageErr) {
		notice := fmt.Sprintf("%s failed: %v", agent.Info(stageErr.Agent).Name, stageErr.Cause)
		if turn, terr := core.NewTurn(core.RoleSystem, notice); terr == nil {
			if aerr := c.log.Append(turn); aerr != nil {
				c.logger.Error("append failure notice", "run_id", run.ID, "error", aerr.Error())
			}
		}
	}

	snap := c.snapshot(run)
	dur := snap.FinishedAt.Sub(snap.StartedAt)
	if sl, ok := c.logger.(*logging.StructuredLogger); ok {
		sl.LogRun(run.ID, len(snap.Trace), dur, err == nil, err)
		return
	}
	if err != nil {
		c.logger.Error("Pipeline run failed", "run_id", run.ID, "step_count", len(snap.Trace), "duration", dur, "error", err.Error())
		return
	}
	c.logger.Info("Pipeline run completed", "run_id", run.ID, "step_count", len(snap.Trace), "duration", dur)
}

func (c *Controller) logStage(runID string, id core.AgentID, dur time.Duration, err error) {
	if sl, ok := c.logger.(*logging.StructuredLogger); ok {
		sl.WithRun(runID).LogStage(string(id), dur, err == nil, err)
		return
	}
	if err != nil {
		c.logger.Error("Stage execution failed", "run_id", runID, "agent", string(id), "duration", dur, "error", err.Error())
		return
	}
	c.logger.Debug("Stage execution completed", "run_id", runID, "agent", string(id), "duration", dur)
}

// update applies fn to the active run under the controller lock.
func (c *Controller) update(fn func(r *Run)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		fn(c.current)
	}
}

func (c *Controller) snapshot(run *Run) *Run {
	c.mu.Lock()
	defer c.mu.Unlock()
	return run.clone()
}

// Cancel aborts the active run with the given id. The run stops before its
// next stage; a collaborator in flight sees its context cancelled.
func (c *Controller) Cancel(runID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil || c.current.ID != runID {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	c.cancel()
	return nil
}

// Current returns a snapshot of the active run.
func (c *Controller) Current() (*Run, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil, false
	}
	return c.current.clone(), true
}

// State returns the state of the active run, or StateIdle.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return StateIdle
	}
	return c.current.State
}

// Processing reports whether a run is active.
func (c *Controller) Processing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil
}

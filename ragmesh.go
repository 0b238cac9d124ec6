// Package ragmesh provides a high-level façade over the conversation log,
// document registry, agent tracker and pipeline controller of an agentic
// RAG chat session. Most applications interact with this package by:
//  1. Creating a Session via New() (optionally overriding the model or the
//     default agents)
//  2. Uploading documents (Upload / UploadPaths)
//  3. Asking questions (Ask) and reading the conversation (Turns) or
//     subscribing to its changes
//
// All defaults are in-memory and safe for local development and testing.
package ragmesh

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/ragmesh/agent"
	"github.com/hupe1980/ragmesh/conversation"
	"github.com/hupe1980/ragmesh/core"
	"github.com/hupe1980/ragmesh/index"
	"github.com/hupe1980/ragmesh/intake"
	"github.com/hupe1980/ragmesh/logging"
	"github.com/hupe1980/ragmesh/model"
	"github.com/hupe1980/ragmesh/pipeline"
	"github.com/hupe1980/ragmesh/registry"
	"github.com/hupe1980/ragmesh/tracker"
)

// DefaultWelcome is the system turn that opens every session.
const DefaultWelcome = "Welcome to the Agentic RAG Chatbot! Upload documents and start asking questions. " +
	"The system uses three intelligent agents to process your queries."

// Options configures a Session.
type Options struct {
	// Model backs the default response agent (defaults to a mock model).
	Model model.Model
	// MaxModelCalls caps the model calls of the session (0 means unlimited).
	MaxModelCalls int

	// Collaborator overrides. Nil selects the built-in agent over the
	// session's chunk index.
	Ingestor  core.Ingestor
	Retriever core.Retriever
	Generator core.Generator

	// Tuning of the built-in agents.
	ChunkSize         int
	ChunkOverlap      int
	IngestConcurrency int
	TopK              int
	Stream            bool
	Instruction       string

	// MaxFiles limits accepted files per upload (0 means unlimited).
	MaxFiles int

	// Welcome is appended as a system turn when the session starts. Empty
	// disables it.
	Welcome string

	// Callbacks are invoked around every pipeline stage.
	Callbacks *pipeline.CallbackManager

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// AgentStatus is the display state of one pipeline agent.
type AgentStatus struct {
	core.AgentInfo
	Active bool `json:"active"`
}

// Session aggregates the stores and the pipeline of one chat session.
type Session struct {
	opts Options

	log        *conversation.InMemoryLog
	registry   *registry.InMemoryRegistry
	tracker    *tracker.Tracker
	index      *index.InMemoryIndex
	intake     *intake.Intake
	controller *pipeline.Controller
}

// New creates a Session with optional overrides and appends the welcome
// turn.
func New(optFns ...func(o *Options)) (*Session, error) {
	opts := Options{
		ChunkSize:         agent.DefaultChunkSize,
		ChunkOverlap:      agent.DefaultChunkOverlap,
		IngestConcurrency: agent.DefaultIngestConcurrency,
		TopK:              agent.DefaultTopK,
		Instruction:       agent.DefaultInstruction,
		MaxFiles:          intake.DefaultMaxFiles,
		Welcome:           DefaultWelcome,
		Logger:            logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Model == nil {
		opts.Model = model.NewMockModel("mock", "mock")
	}
	if opts.MaxModelCalls > 0 {
		opts.Model = model.WithCallLimit(opts.Model, opts.MaxModelCalls)
	}

	s := &Session{
		opts:     opts,
		log:      conversation.NewInMemoryLog(),
		registry: registry.NewInMemoryRegistry(),
		tracker:  tracker.New(),
		index:    index.NewInMemoryIndex(),
		intake: intake.New(func(o *intake.Options) {
			o.MaxFiles = opts.MaxFiles
			o.Logger = opts.Logger
		}),
	}

	ingestor := opts.Ingestor
	if ingestor == nil {
		ingestor = agent.NewIngestionAgent(s.index, func(o *agent.IngestionOptions) {
			o.ChunkSize = opts.ChunkSize
			o.ChunkOverlap = opts.ChunkOverlap
			o.Concurrency = opts.IngestConcurrency
			o.Logger = opts.Logger
		})
	}
	retriever := opts.Retriever
	if retriever == nil {
		retriever = agent.NewRetrievalAgent(s.index, func(o *agent.RetrievalOptions) {
			o.TopK = opts.TopK
			o.Logger = opts.Logger
		})
	}
	generator := opts.Generator
	if generator == nil {
		generator = agent.NewResponseAgent(opts.Model, func(o *agent.ResponseOptions) {
			o.Instruction = opts.Instruction
			o.Stream = opts.Stream
			o.Logger = opts.Logger
		})
	}

	s.controller = pipeline.New(s.log, s.registry, s.tracker, ingestor, retriever, generator, func(o *pipeline.Options) {
		o.Logger = opts.Logger
		o.Callbacks = opts.Callbacks
	})

	if opts.Welcome != "" {
		if err := s.appendSystem(opts.Welcome); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Upload validates files, registers the accepted ones and acknowledges them
// with a system turn. Rejected files are reported in the result; nothing is
// appended when no file was accepted.
func (s *Session) Upload(files ...intake.File) (intake.Result, error) {
	res := s.intake.Accept(files...)
	if len(res.Accepted) == 0 {
		return res, nil
	}
	s.registry.Add(res.Accepted...)
	msg := fmt.Sprintf("✅ Uploaded %d file(s): %s. Documents are being processed by the %s.",
		len(res.Accepted), strings.Join(res.Names(), ", "), agent.Info(core.AgentIngestion).Name)
	if err := s.appendSystem(msg); err != nil {
		return res, err
	}
	s.opts.Logger.Info("documents uploaded", "accepted", len(res.Accepted), "rejected", len(res.Rejected), "total", s.registry.Len())
	return res, nil
}

// UploadPaths uploads files from the local filesystem.
func (s *Session) UploadPaths(paths ...string) (intake.Result, error) {
	files, err := intake.FromPaths(paths...)
	if err != nil {
		return intake.Result{}, err
	}
	return s.Upload(files...)
}

// Ask runs query through the pipeline. See pipeline.Controller.Submit for
// the error contract.
func (s *Session) Ask(ctx context.Context, query string) (*pipeline.Run, error) {
	return s.controller.Submit(ctx, query)
}

// Cancel aborts the active run with the given id.
func (s *Session) Cancel(runID string) error { return s.controller.Cancel(runID) }

// CurrentRun returns a snapshot of the active run.
func (s *Session) CurrentRun() (*pipeline.Run, bool) { return s.controller.Current() }

// Processing reports whether the agents are working on a query.
func (s *Session) Processing() bool { return s.controller.Processing() }

// State returns the pipeline state of the active run, or idle.
func (s *Session) State() pipeline.State { return s.controller.State() }

// Turns returns the conversation in insertion order.
func (s *Session) Turns() []core.Turn { return s.log.All() }

// Documents returns the registered documents in upload order.
func (s *Session) Documents() []core.Document { return s.registry.List() }

// ActiveAgents returns the agents currently marked active, in pipeline order.
func (s *Session) ActiveAgents() []core.AgentID { return s.tracker.Active() }

// AgentStatus returns the display state of every agent in pipeline order.
func (s *Session) AgentStatus() []AgentStatus {
	order := core.PipelineOrder()
	out := make([]AgentStatus, len(order))
	for i, id := range order {
		out[i] = AgentStatus{AgentInfo: agent.Info(id), Active: s.tracker.IsActive(id)}
	}
	return out
}

// SubscribeTurns streams appended turns. Call cancel to unsubscribe.
func (s *Session) SubscribeTurns(buffer int) (<-chan core.Turn, func()) {
	return s.log.Subscribe(buffer)
}

// SubscribeAgents streams changes of the active agent set.
func (s *Session) SubscribeAgents(buffer int) (<-chan tracker.Snapshot, func()) {
	return s.tracker.Subscribe(buffer)
}

// SubscribeDocuments streams registry additions.
func (s *Session) SubscribeDocuments(buffer int) (<-chan registry.Change, func()) {
	return s.registry.Subscribe(buffer)
}

func (s *Session) appendSystem(content string) error {
	turn, err := core.NewTurn(core.RoleSystem, content)
	if err != nil {
		return err
	}
	return s.log.Append(turn)
}

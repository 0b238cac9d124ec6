package agent

import (
	"context"
	"fmt"

	"github.com/hupe1980/ragmesh/core"
	"github.com/hupe1980/ragmesh/internal/util"
	"github.com/hupe1980/ragmesh/logging"
	"github.com/hupe1980/ragmesh/model"
)

// DefaultInstruction is the system instruction sent with every question.
const DefaultInstruction = "You are a retrieval-augmented assistant. Answer the question using only the provided document context. " +
	"If the context does not contain the answer, say so and suggest uploading a relevant document."

// DefaultPromptTemplate renders the user message from the query and chunks.
const DefaultPromptTemplate = `{{if .Chunks}}Context:
{{range $i, $c := .Chunks}}[{{inc $i}}] ({{$c.SourceID}}) {{$c.Text}}
{{end}}
{{else}}No document context is available.

{{end}}Question: {{.Query}}`

// ResponseOptions configures a ResponseAgent.
type ResponseOptions struct {
	Instruction    string
	PromptTemplate string
	Stream         bool
	Logger         logging.Logger
}

// ResponseAgent generates the final answer with a language model.
type ResponseAgent struct {
	BaseAgent
	model model.Model
	opts  ResponseOptions
}

// NewResponseAgent creates a response agent backed by m.
func NewResponseAgent(m model.Model, optFns ...func(o *ResponseOptions)) *ResponseAgent {
	opts := ResponseOptions{
		Instruction:    DefaultInstruction,
		PromptTemplate: DefaultPromptTemplate,
		Logger:         logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &ResponseAgent{BaseAgent: NewBaseAgent(core.AgentResponse), model: m, opts: opts}
}

type promptData struct {
	Query  string
	Chunks []core.Chunk
}

// Prompt renders the user message for query and chunks.
func (a *ResponseAgent) Prompt(query string, chunks []core.Chunk) (string, error) {
	return util.RenderTemplate(a.opts.PromptTemplate, promptData{Query: query, Chunks: chunks})
}

// Generate implements core.Generator.
func (a *ResponseAgent) Generate(ctx context.Context, query string, chunks []core.Chunk) (core.Generation, error) {
	prompt, err := a.Prompt(query, chunks)
	if err != nil {
		return core.Generation{}, fmt.Errorf("build prompt: %w", err)
	}
	req := model.Request{
		Instructions: a.opts.Instruction,
		Messages:     []model.Message{{Role: model.RoleUser, Text: prompt}},
		Stream:       a.opts.Stream,
	}
	text, usage, err := model.Collect(ctx, a.model, req)
	if err != nil {
		info := a.model.Info()
		return core.Generation{}, fmt.Errorf("%s/%s: %w", info.Provider, info.Name, err)
	}
	if usage != nil {
		a.opts.Logger.Debug("model usage", "agent", a.Name(), "model", a.model.Info().Name, "total_tokens", usage.TotalTokens)
	}
	return core.Generation{Text: text}, nil
}

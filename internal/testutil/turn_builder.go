package testutil

import (
	"testing"

	"github.com/hupe1980/ragmesh/core"
)

// TurnBuilder helps construct turns with fluent chaining for tests.
// Example:
//
//	turn := NewTurnBuilder(core.RoleAssistant, "hi").Sources("a.pdf").CompletedTrace().Build(t)
type TurnBuilder struct {
	role    core.Role
	content string
	sources []string
	trace   []core.TraceStep
}

// NewTurnBuilder creates a builder for a turn with the given role and content.
func NewTurnBuilder(role core.Role, content string) *TurnBuilder {
	return &TurnBuilder{role: role, content: content}
}

// Sources sets the cited sources (chainable).
func (b *TurnBuilder) Sources(sources ...string) *TurnBuilder {
	b.sources = append(b.sources, sources...)
	return b
}

// Step appends a trace step (chainable).
func (b *TurnBuilder) Step(agent core.AgentID, status core.StepStatus, action string) *TurnBuilder {
	b.trace = append(b.trace, core.TraceStep{Agent: agent, Status: status, Action: action})
	return b
}

// CompletedTrace appends one completed step per pipeline agent (chainable).
func (b *TurnBuilder) CompletedTrace() *TurnBuilder {
	for _, a := range core.PipelineOrder() {
		b.Step(a, core.StatusCompleted, "done")
	}
	return b
}

// Build returns the turn, failing the test when it is invalid.
func (b *TurnBuilder) Build(t testing.TB) core.Turn {
	t.Helper()
	var opts []core.TurnOption
	if len(b.sources) > 0 {
		opts = append(opts, core.WithSources(b.sources...))
	}
	if len(b.trace) > 0 {
		opts = append(opts, core.WithTrace(b.trace))
	}
	turn, err := core.NewTurn(b.role, b.content, opts...)
	if err != nil {
		t.Fatalf("build turn: %v", err)
	}
	return turn
}

// Documents builds one document per name with a deterministic id
// ("doc-<name>") and the extension derived from the name.
func Documents(names ...string) []core.Document {
	docs := make([]core.Document, len(names))
	for i, n := range names {
		docs[i] = core.Document{ID: "doc-" + n, Name: n, SizeBytes: 1024, Extension: core.ExtensionOf(n)}
	}
	return docs
}

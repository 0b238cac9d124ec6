package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/ragmesh/core"
	"github.com/hupe1980/ragmesh/internal/testutil"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, query string, chunks []core.Chunk) (core.Generation, error) {
	args := m.Called(ctx, query, chunks)
	return args.Get(0).(core.Generation), args.Error(1)
}

func TestController_PassesRetrievedChunksToGenerator(t *testing.T) {
	chunks := []core.Chunk{
		{DocumentID: "d1", SourceID: "a.pdf", Text: "alpha", Score: 0.9},
		{DocumentID: "d2", SourceID: "b.md", Text: "beta", Score: 0.5},
		{DocumentID: "d1", SourceID: "a.pdf", Text: "gamma", Score: 0.4},
	}

	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, "which one?", chunks).
		Return(core.Generation{Text: "alpha"}, nil).
		Once()

	f := newFixture("a.pdf", "b.md")
	c := f.controller(testutil.StaticIngestor(2), testutil.StaticRetriever(chunks...), gen)

	run, err := c.Submit(context.Background(), "which one?")
	require.NoError(t, err)
	gen.AssertExpectations(t)

	assert.Equal(t, []string{"a.pdf", "b.md"}, run.Answer.Sources)
	assert.Equal(t, "3 relevant chunks found", run.Trace[1].Details)
	assert.Equal(t, "4 chunks indexed from 2 documents", run.Trace[0].Details)
}

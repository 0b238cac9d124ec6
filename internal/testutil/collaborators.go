package testutil

import (
	"context"
	"sync/atomic"

	"github.com/hupe1980/ragmesh/core"
)

// StaticIngestor reports every given document as ingested with chunks
// chunks each.
func StaticIngestor(chunks int) core.IngestorFunc {
	return func(_ context.Context, docs []core.Document) (core.IngestResult, error) {
		ids := make([]string, 0, len(docs))
		for _, d := range docs {
			ids = append(ids, d.ID)
		}
		return core.IngestResult{Documents: ids, NewChunks: chunks * len(ids), TotalChunks: chunks * len(ids)}, nil
	}
}

// StaticRetriever returns the given chunks for every query.
func StaticRetriever(chunks ...core.Chunk) core.RetrieverFunc {
	return func(context.Context, string, core.IngestResult) (core.Retrieval, error) {
		return core.Retrieval{Chunks: append([]core.Chunk(nil), chunks...)}, nil
	}
}

// StaticGenerator answers every query with text.
func StaticGenerator(text string) core.GeneratorFunc {
	return func(context.Context, string, []core.Chunk) (core.Generation, error) {
		return core.Generation{Text: text}, nil
	}
}

// FailingIngestor fails every call with err.
func FailingIngestor(err error) core.IngestorFunc {
	return func(context.Context, []core.Document) (core.IngestResult, error) {
		return core.IngestResult{}, err
	}
}

// FailingRetriever fails every call with err.
func FailingRetriever(err error) core.RetrieverFunc {
	return func(context.Context, string, core.IngestResult) (core.Retrieval, error) {
		return core.Retrieval{}, err
	}
}

// FailingGenerator fails every call with err.
func FailingGenerator(err error) core.GeneratorFunc {
	return func(context.Context, string, []core.Chunk) (core.Generation, error) {
		return core.Generation{}, err
	}
}

// Gate blocks a stage until released so tests can observe a run in flight.
// Entered is closed the first time the stage is reached.
type Gate struct {
	Entered chan struct{}
	release chan struct{}
	entered atomic.Bool
	calls   atomic.Int32
}

// NewGate creates a closed gate.
func NewGate() *Gate {
	return &Gate{Entered: make(chan struct{}), release: make(chan struct{})}
}

// Release lets every blocked and future call through.
func (g *Gate) Release() { close(g.release) }

// Calls returns how often the gated stage was reached.
func (g *Gate) Calls() int { return int(g.calls.Load()) }

func (g *Gate) wait(ctx context.Context) error {
	g.calls.Add(1)
	if g.entered.CompareAndSwap(false, true) {
		close(g.Entered)
	}
	select {
	case <-g.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ingestor wraps next so that it runs only after the gate is released.
func (g *Gate) Ingestor(next core.Ingestor) core.IngestorFunc {
	return func(ctx context.Context, docs []core.Document) (core.IngestResult, error) {
		if err := g.wait(ctx); err != nil {
			return core.IngestResult{}, err
		}
		return next.Ingest(ctx, docs)
	}
}

// Retriever wraps next so that it runs only after the gate is released.
func (g *Gate) Retriever(next core.Retriever) core.RetrieverFunc {
	return func(ctx context.Context, query string, ingested core.IngestResult) (core.Retrieval, error) {
		if err := g.wait(ctx); err != nil {
			return core.Retrieval{}, err
		}
		return next.Retrieve(ctx, query, ingested)
	}
}

package agent

import (
	"context"

	"github.com/hupe1980/ragmesh/core"
	"github.com/hupe1980/ragmesh/index"
	"github.com/hupe1980/ragmesh/logging"
)

// DefaultTopK is the number of chunks returned by RetrievalAgent.
const DefaultTopK = 3

// RetrievalOptions configures a RetrievalAgent.
type RetrievalOptions struct {
	TopK   int
	Logger logging.Logger
}

// RetrievalAgent searches the chunk index for the documents covered by the
// ingestion result.
type RetrievalAgent struct {
	BaseAgent
	index *index.InMemoryIndex
	opts  RetrievalOptions
}

// NewRetrievalAgent creates a retrieval agent reading from idx.
func NewRetrievalAgent(idx *index.InMemoryIndex, optFns ...func(o *RetrievalOptions)) *RetrievalAgent {
	opts := RetrievalOptions{TopK: DefaultTopK, Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &RetrievalAgent{BaseAgent: NewBaseAgent(core.AgentRetrieval), index: idx, opts: opts}
}

// Retrieve implements core.Retriever.
func (a *RetrievalAgent) Retrieve(ctx context.Context, query string, ingested core.IngestResult) (core.Retrieval, error) {
	if err := ctx.Err(); err != nil {
		return core.Retrieval{}, err
	}
	if len(ingested.Documents) == 0 {
		return core.Retrieval{}, nil
	}
	chunks := a.index.Search(query, ingested.Documents, a.opts.TopK)
	a.opts.Logger.Debug("chunks retrieved", "agent", a.Name(), "hits", len(chunks), "top_k", a.opts.TopK)
	return core.Retrieval{Chunks: chunks}, nil
}

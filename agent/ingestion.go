package agent

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/ragmesh/core"
	"github.com/hupe1980/ragmesh/index"
	"github.com/hupe1980/ragmesh/logging"
)

const (
	// DefaultChunkSize is the chunk window in runes.
	DefaultChunkSize = 800
	// DefaultChunkOverlap is the number of runes shared by adjacent chunks.
	DefaultChunkOverlap = 100
	// DefaultIngestConcurrency bounds parallel document parsing.
	DefaultIngestConcurrency = 4
)

// IngestionOptions configures an IngestionAgent.
type IngestionOptions struct {
	Parser       Parser
	ChunkSize    int
	ChunkOverlap int
	Concurrency  int
	Logger       logging.Logger
}

// IngestionAgent parses registered documents and stores their chunks in an
// index. Documents already present in the index are not parsed again.
type IngestionAgent struct {
	BaseAgent
	index *index.InMemoryIndex
	opts  IngestionOptions
}

// NewIngestionAgent creates an ingestion agent writing into idx.
func NewIngestionAgent(idx *index.InMemoryIndex, optFns ...func(o *IngestionOptions)) *IngestionAgent {
	opts := IngestionOptions{
		Parser:       FileParser{},
		ChunkSize:    DefaultChunkSize,
		ChunkOverlap: DefaultChunkOverlap,
		Concurrency:  DefaultIngestConcurrency,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &IngestionAgent{BaseAgent: NewBaseAgent(core.AgentIngestion), index: idx, opts: opts}
}

// Ingest implements core.Ingestor. Parsing runs concurrently; the first
// failure cancels the remaining work and nothing from this call is indexed.
func (a *IngestionAgent) Ingest(ctx context.Context, docs []core.Document) (core.IngestResult, error) {
	start := time.Now()
	ids := make([]string, 0, len(docs))
	var pending []core.Document
	queued := make(map[string]struct{}, len(docs))
	for _, d := range docs {
		id := documentKey(d)
		ids = append(ids, id)
		if _, dup := queued[id]; dup || a.index.Has(id) {
			continue
		}
		queued[id] = struct{}{}
		pending = append(pending, d)
	}

	parsed := make([][]core.Chunk, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	if a.opts.Concurrency > 0 {
		g.SetLimit(a.opts.Concurrency)
	}
	for i, d := range pending {
		i, d := i, d
		g.Go(func() error {
			text, err := a.opts.Parser.Parse(gctx, d)
			if err != nil {
				return err
			}
			windows := Split(text, a.opts.ChunkSize, a.opts.ChunkOverlap)
			chunks := make([]core.Chunk, len(windows))
			for j, w := range windows {
				chunks[j] = core.Chunk{DocumentID: documentKey(d), SourceID: d.Name, Text: w}
			}
			parsed[i] = chunks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return core.IngestResult{}, fmt.Errorf("ingest documents: %w", err)
	}

	newChunks := 0
	for i, d := range pending {
		a.index.Put(documentKey(d), parsed[i])
		newChunks += len(parsed[i])
	}

	res := core.IngestResult{Documents: ids, NewChunks: newChunks, TotalChunks: a.index.Count(ids)}
	a.opts.Logger.Debug("documents ingested",
		"agent", a.Name(), "documents", len(ids), "parsed", len(pending),
		"new_chunks", newChunks, "duration", time.Since(start))
	return res, nil
}

func documentKey(d core.Document) string {
	if d.ID != "" {
		return d.ID
	}
	return d.Name
}

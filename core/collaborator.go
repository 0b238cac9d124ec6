package core

import "context"

// Chunk is a piece of document text. SourceID is the identifier shown to
// the user as a source (the document name).
type Chunk struct {
	DocumentID string  `json:"document_id"`
	SourceID   string  `json:"source_id"`
	Text       string  `json:"text"`
	Score      float64 `json:"score,omitempty"`
}

// IngestResult is the output of the ingestion stage.
type IngestResult struct {
	// Documents lists the ids of every document covered by this ingestion,
	// including documents that were already indexed earlier.
	Documents []string
	// NewChunks counts the chunks produced by this call.
	NewChunks int
	// TotalChunks counts the chunks available for retrieval.
	TotalChunks int
}

// Retrieval is the output of the retrieval stage.
type Retrieval struct {
	Chunks []Chunk
}

// Sources returns the distinct source ids of the chunks in first-seen order.
func (r Retrieval) Sources() []string {
	seen := make(map[string]struct{}, len(r.Chunks))
	var sources []string
	for _, c := range r.Chunks {
		if c.SourceID == "" {
			continue
		}
		if _, ok := seen[c.SourceID]; ok {
			continue
		}
		seen[c.SourceID] = struct{}{}
		sources = append(sources, c.SourceID)
	}
	return sources
}

// Generation is the output of the response stage.
type Generation struct {
	Text string
}

// Ingestor parses and indexes documents.
type Ingestor interface {
	Ingest(ctx context.Context, docs []Document) (IngestResult, error)
}

// Retriever selects the chunks relevant to a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, ingested IngestResult) (Retrieval, error)
}

// Generator produces an answer from a query and retrieved context.
type Generator interface {
	Generate(ctx context.Context, query string, chunks []Chunk) (Generation, error)
}

// IngestorFunc adapts a function to the Ingestor interface.
type IngestorFunc func(ctx context.Context, docs []Document) (IngestResult, error)

// Ingest implements Ingestor.
func (f IngestorFunc) Ingest(ctx context.Context, docs []Document) (IngestResult, error) {
	return f(ctx, docs)
}

// RetrieverFunc adapts a function to the Retriever interface.
type RetrieverFunc func(ctx context.Context, query string, ingested IngestResult) (Retrieval, error)

// Retrieve implements Retriever.
func (f RetrieverFunc) Retrieve(ctx context.Context, query string, ingested IngestResult) (Retrieval, error) {
	return f(ctx, query, ingested)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, query string, chunks []Chunk) (Generation, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(ctx context.Context, query string, chunks []Chunk) (Generation, error) {
	return f(ctx, query, chunks)
}

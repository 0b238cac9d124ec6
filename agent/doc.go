// Package agent contains the default collaborators for the three pipeline
// stages. Each agent embeds BaseAgent for identity and implements one of the
// core collaborator interfaces:
//
//  1. IngestionAgent (core.Ingestor) parses documents and fills the chunk index
//  2. RetrievalAgent (core.Retriever) searches the index for relevant chunks
//  3. ResponseAgent (core.Generator) asks a model.Model for the final answer
//
// Design principles:
//   - No hidden global state; agents share an *index.InMemoryIndex explicitly
//   - Every blocking call takes a context.Context and honours cancellation
//   - Swappable pieces (Parser, model.Model) are small interfaces
//
// The pipeline controller never depends on this package; any implementation
// of the core interfaces can replace these agents.
package agent

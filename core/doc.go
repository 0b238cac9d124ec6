// Package core provides the foundational domain types, interfaces and errors
// used by ragmesh. It defines the core abstractions for:
//
//   - Turns (immutable conversation entries carrying sources and a trace)
//   - Trace steps (one record per pipeline stage with a forward-only status)
//   - Documents (accepted uploads restricted to a fixed extension allow-list)
//   - Agents (the three pipeline roles: ingestion, retrieval, response)
//   - Collaborators (Ingestor, Retriever, Generator) called by the pipeline
//   - Stores (ConversationLog, DocumentRegistry, AgentTracker)
//
// The package keeps implementation concerns (storage, orchestration, model
// backends) out of scope, exposing small interfaces so that the pipeline
// controller, the default agents and any UI layer can be wired independently.
package core

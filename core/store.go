package core

// ConversationLog is the append-only, ordered record of turns.
type ConversationLog interface {
	Append(turn Turn) error
	All() []Turn
	Len() int
}

// DocumentRegistry holds the documents accepted in the current session.
type DocumentRegistry interface {
	Add(docs ...Document)
	List() []Document
	Len() int
}

// AgentTracker holds the set of agents currently marked active. The set is
// display state only; the trace is the record of what actually ran.
type AgentTracker interface {
	MarkActive(agents ...AgentID)
	MarkIdle()
	IsActive(agent AgentID) bool
	ActiveCount() int
	Active() []AgentID
}

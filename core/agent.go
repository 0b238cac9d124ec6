package core

import "fmt"

// AgentID identifies one of the three pipeline roles. The set is closed.
type AgentID string

const (
	// AgentIngestion parses and chunks the registered documents.
	AgentIngestion AgentID = "ingestion"
	// AgentRetrieval selects the chunks relevant to a query.
	AgentRetrieval AgentID = "retrieval"
	// AgentResponse generates the final answer from the retrieved chunks.
	AgentResponse AgentID = "response"
)

// PipelineOrder lists the agents in the order the pipeline executes them.
// The returned slice is a fresh copy.
func PipelineOrder() []AgentID {
	return []AgentID{AgentIngestion, AgentRetrieval, AgentResponse}
}

// Valid reports whether a is one of the known agents.
func (a AgentID) Valid() bool {
	switch a {
	case AgentIngestion, AgentRetrieval, AgentResponse:
		return true
	default:
		return false
	}
}

// Position returns the zero based pipeline position of a, or -1 when a is
// not a known agent.
func (a AgentID) Position() int {
	switch a {
	case AgentIngestion:
		return 0
	case AgentRetrieval:
		return 1
	case AgentResponse:
		return 2
	default:
		return -1
	}
}

// ParseAgentID converts s into an AgentID.
func ParseAgentID(s string) (AgentID, error) {
	a := AgentID(s)
	if !a.Valid() {
		return "", fmt.Errorf("unknown agent %q", s)
	}
	return a, nil
}

// AgentInfo carries the display details of a pipeline agent.
type AgentInfo struct {
	ID          AgentID
	Name        string
	Description string
}

package agent

import (
	"fmt"

	"github.com/hupe1980/ragmesh/core"
)

var agentInfo = map[core.AgentID]core.AgentInfo{
	core.AgentIngestion: {ID: core.AgentIngestion, Name: "IngestionAgent", Description: "Parsing & chunking documents"},
	core.AgentRetrieval: {ID: core.AgentRetrieval, Name: "RetrievalAgent", Description: "Vector search & context retrieval"},
	core.AgentResponse:  {ID: core.AgentResponse, Name: "LLMResponseAgent", Description: "Generating final response"},
}

// Info returns the display name and description of a pipeline agent. Unknown
// ids get a generated name.
func Info(id core.AgentID) core.AgentInfo {
	if info, ok := agentInfo[id]; ok {
		return info
	}
	return core.AgentInfo{ID: id, Name: fmt.Sprintf("Agent %s", id)}
}

// BaseAgent bundles the identity shared by the stage agents. Embed it in a
// concrete agent and implement the matching core collaborator interface.
type BaseAgent struct {
	id          core.AgentID
	name        string
	description string
}

// NewBaseAgent constructs a BaseAgent with the standard name and description
// for id (customizable via SetDescription).
func NewBaseAgent(id core.AgentID) BaseAgent {
	info := Info(id)
	return BaseAgent{id: id, name: info.Name, description: info.Description}
}

// ID returns the pipeline role of this agent.
func (b *BaseAgent) ID() core.AgentID { return b.id }

// Name returns the human-readable name for this agent.
func (b *BaseAgent) Name() string { return b.name }

// Description returns a short description of this agent's purpose.
func (b *BaseAgent) Description() string { return b.description }

// SetDescription updates the agent's description.
func (b *BaseAgent) SetDescription(desc string) { b.description = desc }

// Info returns the agent's identity as a core.AgentInfo.
func (b *BaseAgent) Info() core.AgentInfo {
	return core.AgentInfo{ID: b.id, Name: b.name, Description: b.description}
}

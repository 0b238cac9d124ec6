package anthropic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/ragmesh/model"
)

// Interface compliance (compile-time assertion)
var _ model.Model = (*Model)(nil)

func TestBuildMessages_SkipsSystemAndEmpty(t *testing.T) {
	msgs := buildMessages([]model.Message{
		{Role: model.RoleSystem, Text: "be brief"},
		{Role: model.RoleUser, Text: "question"},
		{Role: model.RoleAssistant, Text: ""},
		{Role: model.RoleAssistant, Text: "answer"},
	})
	assert.Len(t, msgs, 2)
}

func TestSystemBlocks(t *testing.T) {
	blocks := systemBlocks(model.Request{
		Instructions: "use the context",
		Messages:     []model.Message{{Role: model.RoleSystem, Text: "be brief"}, {Role: model.RoleUser, Text: "q"}},
	})
	assert.Len(t, blocks, 2)
	assert.Equal(t, "use the context", blocks[0].Text)
	assert.Equal(t, "be brief", blocks[1].Text)
}

func TestInfo(t *testing.T) {
	m := NewModelFromClient(nil, func(o *Options) { o.Model = "claude-3-5-haiku-latest" })
	assert.Equal(t, model.Info{Name: "claude-3-5-haiku-latest", Provider: "anthropic"}, m.Info())
}

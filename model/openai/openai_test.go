package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/ragmesh/model"
)

// Interface compliance (compile-time assertion)
var _ model.Model = (*Model)(nil)

func TestBuildMessages(t *testing.T) {
	msgs := buildMessages(model.Request{
		Instructions: "answer from context",
		Messages: []model.Message{
			{Role: model.RoleUser, Text: "question"},
			{Role: model.RoleAssistant, Text: "earlier answer"},
			{Role: model.RoleUser, Text: ""},
		},
	})
	assert.Len(t, msgs, 3)
	assert.NotNil(t, msgs[0].OfSystem)
	assert.NotNil(t, msgs[1].OfUser)
	assert.NotNil(t, msgs[2].OfAssistant)
}

func TestNewModelFromClient_Options(t *testing.T) {
	m := NewModelFromClient(nil, func(o *Options) {
		o.Model = "gpt-4o"
		o.Temperature = 0
	})
	info := m.Info()
	assert.Equal(t, "gpt-4o", info.Name)
	assert.Equal(t, "openai", info.Provider)
	assert.Equal(t, int64(1024), m.opts.MaxCompletionTokens)
}

package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitedModel(t *testing.T) {
	ctx := context.Background()
	mock := NewMockModel("m", "mock")
	limited := WithCallLimit(mock, 2)

	var _ Model = limited

	for i := 0; i < 2; i++ {
		_, _, err := Collect(ctx, limited, Request{Messages: []Message{{Role: RoleUser, Text: "hi"}}})
		require.NoError(t, err)
	}
	assert.Equal(t, 0, limited.Remaining())

	_, _, err := Collect(ctx, limited, Request{Messages: []Message{{Role: RoleUser, Text: "hi"}}})
	assert.ErrorIs(t, err, ErrCallLimit)
	assert.Equal(t, 2, limited.Count())
	assert.Len(t, mock.Requests(), 2)
	assert.Equal(t, "mock", limited.Info().Provider)
}

func TestLimitedModelUnlimited(t *testing.T) {
	limited := WithCallLimit(NewMockModel("m", "mock"), 0)
	for i := 0; i < 5; i++ {
		_, _, err := Collect(context.Background(), limited, Request{Messages: []Message{{Role: RoleUser, Text: "x"}}})
		require.NoError(t, err)
	}
	assert.Equal(t, -1, limited.Remaining())
	assert.Equal(t, 5, limited.Count())
}

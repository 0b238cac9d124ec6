package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesAllSubscribers(t *testing.T) {
	h := NewHub[int]()
	a, cancelA := h.Subscribe(4)
	b, cancelB := h.Subscribe(4)
	defer cancelA()
	defer cancelB()

	assert.Equal(t, 0, h.Publish(7))
	assert.Equal(t, 7, <-a)
	assert.Equal(t, 7, <-b)
	assert.Equal(t, 2, h.Len())
}

func TestHub_SlowSubscriberDrops(t *testing.T) {
	h := NewHub[string]()
	ch, cancel := h.Subscribe(1)
	defer cancel()

	assert.Equal(t, 0, h.Publish("first"))
	assert.Equal(t, 1, h.Publish("second"))
	assert.Equal(t, "first", <-ch)
}

func TestHub_CancelClosesChannel(t *testing.T) {
	h := NewHub[int]()
	ch, cancel := h.Subscribe(0)
	cancel()
	cancel()

	_, ok := <-ch
	require.False(t, ok)
	assert.Equal(t, 0, h.Len())
	assert.Equal(t, 0, h.Publish(1))
}

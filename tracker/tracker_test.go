package tracker

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/ragmesh/core"
)

// Interface compliance (compile-time assertion)
var _ core.AgentTracker = (*Tracker)(nil)

func TestTracker_StartsIdle(t *testing.T) {
	tr := New()
	assert.Equal(t, 0, tr.ActiveCount())
	assert.Empty(t, tr.Active())
	for _, a := range core.PipelineOrder() {
		assert.False(t, tr.IsActive(a))
	}
}

func TestTracker_MarkActiveReplacesSet(t *testing.T) {
	tr := New()
	tr.MarkActive(core.AgentResponse, core.AgentIngestion)
	assert.Equal(t, 2, tr.ActiveCount())
	assert.Equal(t, []core.AgentID{core.AgentIngestion, core.AgentResponse}, tr.Active())

	tr.MarkActive(core.AgentRetrieval)
	assert.Equal(t, 1, tr.ActiveCount())
	assert.True(t, tr.IsActive(core.AgentRetrieval))
	assert.False(t, tr.IsActive(core.AgentIngestion))
}

func TestTracker_IgnoresUnknownAgents(t *testing.T) {
	tr := New()
	tr.MarkActive("planner", core.AgentRetrieval, core.AgentRetrieval)
	assert.Equal(t, []core.AgentID{core.AgentRetrieval}, tr.Active())
}

func TestTracker_MarkIdle(t *testing.T) {
	tr := New()
	tr.MarkActive(core.PipelineOrder()...)
	tr.MarkIdle()
	assert.Equal(t, 0, tr.ActiveCount())
}

func TestTracker_SubscribeObservesEveryMutation(t *testing.T) {
	tr := New()
	ch, cancel := tr.Subscribe(4)
	defer cancel()

	tr.MarkActive(core.PipelineOrder()...)
	tr.MarkIdle()

	first := <-ch
	assert.Equal(t, 3, first.Count())
	second := <-ch
	assert.Equal(t, 0, second.Count())
}

func TestTracker_LastSnapshotMatchesState(t *testing.T) {
	const writers, perWriter = 8, 50
	tr := New()
	ch, cancel := tr.Subscribe(writers * perWriter)

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				if (w+i)%2 == 0 {
					tr.MarkActive(core.PipelineOrder()...)
				} else {
					tr.MarkActive(core.AgentRetrieval)
				}
			}
		}(w)
	}
	wg.Wait()
	cancel()

	var last Snapshot
	n := 0
	for snap := range ch {
		last = snap
		n++
	}
	assert.Equal(t, writers*perWriter, n)
	assert.Equal(t, tr.Active(), last.Active)
}

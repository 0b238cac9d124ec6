// Package tracker maintains the set of pipeline agents currently marked
// active. The set drives live status display only; it is not a record of
// execution order (see the trace on each assistant turn for that).
package tracker

import (
	"sync"

	"github.com/hupe1980/ragmesh/core"
	"github.com/hupe1980/ragmesh/internal/notify"
)

// Snapshot is published after every mutation.
type Snapshot struct {
	Active []core.AgentID
}

// Count returns the number of active agents in the snapshot.
func (s Snapshot) Count() int { return len(s.Active) }

// Tracker implements core.AgentTracker. All methods are goroutine-safe.
type Tracker struct {
	mu     sync.RWMutex
	active map[core.AgentID]struct{}
	hub    *notify.Hub[Snapshot]
}

// New returns a tracker with an empty active set.
func New() *Tracker {
	return &Tracker{
		active: make(map[core.AgentID]struct{}),
		hub:    notify.NewHub[Snapshot](),
	}
}

// MarkActive replaces the active set with agents. Unknown ids are ignored.
func (t *Tracker) MarkActive(agents ...core.AgentID) {
	next := make(map[core.AgentID]struct{}, len(agents))
	for _, a := range agents {
		if a.Valid() {
			next[a] = struct{}{}
		}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = next
	t.hub.Publish(t.snapshotLocked())
}

// MarkIdle clears the active set.
func (t *Tracker) MarkIdle() {
	t.MarkActive()
}

// IsActive reports whether agent is in the active set.
func (t *Tracker) IsActive(agent core.AgentID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.active[agent]
	return ok
}

// ActiveCount returns the size of the active set.
func (t *Tracker) ActiveCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.active)
}

// Active returns the active agents in pipeline order.
func (t *Tracker) Active() []core.AgentID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snapshotLocked().Active
}

// Subscribe returns a channel receiving a Snapshot after every mutation.
func (t *Tracker) Subscribe(buffer int) (<-chan Snapshot, func()) {
	return t.hub.Subscribe(buffer)
}

func (t *Tracker) snapshotLocked() Snapshot {
	active := make([]core.AgentID, 0, len(t.active))
	for _, a := range core.PipelineOrder() {
		if _, ok := t.active[a]; ok {
			active = append(active, a)
		}
	}
	return Snapshot{Active: active}
}

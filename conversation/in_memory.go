package conversation

import (
	"fmt"
	"sync"

	"github.com/hupe1980/ragmesh/core"
	"github.com/hupe1980/ragmesh/internal/notify"
)

// InMemoryLog is a volatile ConversationLog keeping turns in a process
// local slice. It is safe for concurrent access. Each returned turn is a
// clone so callers can never mutate recorded history.
type InMemoryLog struct {
	mu    sync.RWMutex
	turns []core.Turn
	hub   *notify.Hub[core.Turn]
}

// NewInMemoryLog constructs an empty log.
func NewInMemoryLog() *InMemoryLog {
	return &InMemoryLog{hub: notify.NewHub[core.Turn]()}
}

// Append validates the turn and adds a copy of it to the end of the log.
// Subscribers are notified under the write lock so they observe turns in log
// order; Publish never blocks.
func (l *InMemoryLog) Append(turn core.Turn) error {
	if err := turn.Validate(); err != nil {
		return fmt.Errorf("append turn: %w", err)
	}
	stored := turn.Clone()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = append(l.turns, stored)
	l.hub.Publish(stored.Clone())
	return nil
}

// All returns a deep copy of every turn in insertion order.
func (l *InMemoryLog) All() []core.Turn {
	l.mu.RLock()
	defer l.mu.RUnlock()
	turns := make([]core.Turn, len(l.turns))
	for i, t := range l.turns {
		turns[i] = t.Clone()
	}
	return turns
}

// Len returns the number of recorded turns.
func (l *InMemoryLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.turns)
}

// Last returns the most recent turn, if any.
func (l *InMemoryLog) Last() (core.Turn, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.turns) == 0 {
		return core.Turn{}, false
	}
	return l.turns[len(l.turns)-1].Clone(), true
}

// CountByRole returns how many turns were recorded with the given role.
func (l *InMemoryLog) CountByRole(role core.Role) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := 0
	for _, t := range l.turns {
		if t.Role == role {
			n++
		}
	}
	return n
}

// Subscribe returns a channel receiving every turn appended after the call.
func (l *InMemoryLog) Subscribe(buffer int) (<-chan core.Turn, func()) {
	return l.hub.Subscribe(buffer)
}

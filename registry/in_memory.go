package registry

import (
	"sync"

	"github.com/hupe1980/ragmesh/core"
	"github.com/hupe1980/ragmesh/internal/notify"
)

// Change is published to subscribers after each non-empty Add.
type Change struct {
	Added []core.Document
	Total int
}

// InMemoryRegistry is an in-process DocumentRegistry. Documents are kept in
// insertion order and duplicates (even by name) are stored as distinct
// entries. Validation happens at intake, before documents reach the registry.
type InMemoryRegistry struct {
	mu   sync.RWMutex
	docs []core.Document
	hub  *notify.Hub[Change]
}

// NewInMemoryRegistry returns an empty registry.
func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{hub: notify.NewHub[Change]()}
}

// Add appends docs in order. Adding nothing is a no-op and notifies no one.
func (r *InMemoryRegistry) Add(docs ...core.Document) {
	if len(docs) == 0 {
		return
	}
	added := append([]core.Document(nil), docs...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = append(r.docs, added...)
	r.hub.Publish(Change{Added: added, Total: len(r.docs)})
}

// List returns a snapshot of the registered documents in insertion order.
// The slice is safe for caller mutation.
func (r *InMemoryRegistry) List() []core.Document {
	r.mu.RLock()
	defer r.mu.RUnlock()
	docs := make([]core.Document, len(r.docs))
	copy(docs, r.docs)
	return docs
}

// Len returns the number of registered documents.
func (r *InMemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs)
}

// TotalBytes returns the summed size of all registered documents.
func (r *InMemoryRegistry) TotalBytes() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var total int64
	for _, d := range r.docs {
		total += d.SizeBytes
	}
	return total
}

// Subscribe returns a channel receiving a Change for every non-empty Add.
func (r *InMemoryRegistry) Subscribe(buffer int) (<-chan Change, func()) {
	return r.hub.Subscribe(buffer)
}

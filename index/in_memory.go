// Package index provides the chunk store shared by the default ingestion and
// retrieval agents.
package index

import (
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/hupe1980/ragmesh/core"
)

// InMemoryIndex is a naive process-local chunk index. It offers:
//  1. Per-document chunk storage (Put / Has)
//  2. Keyword-overlap Search restricted to a set of documents
//
// Concurrency: protected by RWMutex.
// Scoring: fraction of distinct query terms present in the chunk. Suitable
// for tests and demos; swap for a vector store in production.
type InMemoryIndex struct {
	mu     sync.RWMutex
	order  []string                 // document ids in first-put order
	chunks map[string][]storedChunk // document id -> chunks
}

type storedChunk struct {
	chunk core.Chunk
	terms map[string]struct{}
}

// NewInMemoryIndex creates an empty index.
func NewInMemoryIndex() *InMemoryIndex {
	return &InMemoryIndex{chunks: make(map[string][]storedChunk)}
}

// Put replaces the chunks stored for docID.
func (x *InMemoryIndex) Put(docID string, chunks []core.Chunk) {
	stored := make([]storedChunk, len(chunks))
	for i, c := range chunks {
		c.DocumentID = docID
		c.Score = 0
		stored[i] = storedChunk{chunk: c, terms: termSet(c.Text)}
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	if _, exists := x.chunks[docID]; !exists {
		x.order = append(x.order, docID)
	}
	x.chunks[docID] = stored
}

// Has reports whether docID has been indexed.
func (x *InMemoryIndex) Has(docID string) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	_, ok := x.chunks[docID]
	return ok
}

// Len returns the total number of chunks across all documents.
func (x *InMemoryIndex) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	n := 0
	for _, cs := range x.chunks {
		n += len(cs)
	}
	return n
}

// Count returns the number of chunks stored for the given documents.
func (x *InMemoryIndex) Count(docIDs []string) int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	n := 0
	for _, id := range docIDs {
		n += len(x.chunks[id])
	}
	return n
}

// Search returns up to limit chunks from docIDs ranked by score. Chunks that
// share no term with the query are excluded; ties keep index order. A nil
// docIDs searches every document. A non-positive limit means no limit.
func (x *InMemoryIndex) Search(query string, docIDs []string, limit int) []core.Chunk {
	terms := termSet(query)
	if len(terms) == 0 {
		return nil
	}
	x.mu.RLock()
	defer x.mu.RUnlock()

	ids := docIDs
	if ids == nil {
		ids = x.order
	}
	var hits []core.Chunk
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		for _, sc := range x.chunks[id] {
			matched := 0
			for t := range terms {
				if _, ok := sc.terms[t]; ok {
					matched++
				}
			}
			if matched == 0 {
				continue
			}
			c := sc.chunk
			c.Score = float64(matched) / float64(len(terms))
			hits = append(hits, c)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

// termSet lower-cases text and splits it on anything that is not a letter or
// digit. Terms shorter than two runes are dropped.
func termSet(text string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < 2 {
			continue
		}
		set[f] = struct{}{}
	}
	return set
}

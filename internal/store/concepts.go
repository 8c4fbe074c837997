package store

import (
	"sync"
	"time"
)

// ConceptEntry is one learned term. Term is the identity key: merging the
// same term again refreshes Definition and LastUpdated but keeps LearnedAt.
type ConceptEntry struct {
	Term        string    `json:"term"`
	Definition  string    `json:"definition"`
	LearnedAt   time.Time `json:"learnedAt"`
	LastUpdated time.Time `json:"lastUpdated,omitzero"`
}

// ConceptArchive is the durable term → definition memory. The pipeline is
// the sole writer; readers take a snapshot at call time.
type ConceptArchive struct {
	mu    sync.Mutex
	path  string
	clock func() time.Time
}

func OpenConcepts(path string) *ConceptArchive {
	return &ConceptArchive{path: path, clock: time.Now}
}

// Merge inserts the term or updates its definition. Idempotent on term:
// at most one entry per term ever exists.
func (a *ConceptArchive) Merge(term, definition string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var entries []ConceptEntry
	readCollection(a.path, &entries)

	now := a.clock()
	for i := range entries {
		if entries[i].Term == term {
			entries[i].Definition = definition
			entries[i].LastUpdated = now
			return writeCollection(a.path, entries)
		}
	}
	entries = append(entries, ConceptEntry{Term: term, Definition: definition, LearnedAt: now})
	return writeCollection(a.path, entries)
}

// Snapshot returns the current archive contents.
func (a *ConceptArchive) Snapshot() []ConceptEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	var entries []ConceptEntry
	readCollection(a.path, &entries)
	return entries
}

package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ObservationEntry is one free-text excerpt the agent tagged for archival.
// Deliberately kept in its own file, separate from the concept archive:
// the two record shapes must never share a store.
type ObservationEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Content   string    `json:"content"`
}

type ObservationLog struct {
	mu    sync.Mutex
	path  string
	clock func() time.Time
}

func OpenObservations(path string) *ObservationLog {
	return &ObservationLog{path: path, clock: time.Now}
}

// Append adds one entry to the log. Read-modify-write over the whole file.
func (l *ObservationLog) Append(content string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var entries []ObservationEntry
	readCollection(l.path, &entries)
	entries = append(entries, ObservationEntry{
		ID:        uuid.New().String(),
		Timestamp: l.clock(),
		Content:   content,
	})
	return writeCollection(l.path, entries)
}

func (l *ObservationLog) Entries() []ObservationEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var entries []ObservationEntry
	readCollection(l.path, &entries)
	return entries
}

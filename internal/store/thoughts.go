package store

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ThoughtRecord is one internal reasoning trace, or a periodic reflection.
// Records are append-only: never mutated, never deleted.
type ThoughtRecord struct {
	ID           string    `json:"id,omitempty"`
	Content      string    `json:"content"`
	Timestamp    time.Time `json:"timestamp,omitzero"`
	UserInput    string    `json:"userInput,omitempty"`
	IsReflection bool      `json:"isReflection,omitempty"`
	Type         string    `json:"type,omitempty"`
}

// UnmarshalJSON normalizes the two shapes a persisted thought can have:
// a bare string, or a full record object. Downstream code only ever sees
// the record form.
func (r *ThoughtRecord) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		r.Content = s
		return nil
	}
	type plain ThoughtRecord
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = ThoughtRecord(p)
	return nil
}

// ThoughtLog is the ordered, append-only history of thought records.
type ThoughtLog struct {
	mu    sync.Mutex
	path  string
	clock func() time.Time
}

func OpenThoughts(path string) *ThoughtLog {
	return &ThoughtLog{path: path, clock: time.Now}
}

// Append persists one record, assigning ID and timestamp when missing,
// and returns the total record count after the write.
func (l *ThoughtLog) Append(rec ThoughtRecord) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = l.clock()
	}

	var records []ThoughtRecord
	readCollection(l.path, &records)
	records = append(records, rec)
	if err := writeCollection(l.path, records); err != nil {
		return len(records), err
	}
	return len(records), nil
}

// Recent returns up to n of the newest records, oldest first.
// n <= 0 returns the whole log.
func (l *ThoughtLog) Recent(n int) []ThoughtRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	var records []ThoughtRecord
	readCollection(l.path, &records)
	if n <= 0 || len(records) <= n {
		return records
	}
	return records[len(records)-n:]
}

func (l *ThoughtLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	var records []ThoughtRecord
	readCollection(l.path, &records)
	return len(records)
}

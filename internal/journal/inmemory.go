package journal

import (
	"context"
	"sync"
)

type inMemoryJournal struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewInMemory creates a concurrency-safe journal kept in process memory.
func NewInMemory() Journal {
	return &inMemoryJournal{}
}

func (j *inMemoryJournal) Record(_ context.Context, entry Entry) error {
	entry, err := prepare(entry)
	if err != nil {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, entry)
	return nil
}

// Recent returns up to limit entries, newest first.
func (j *inMemoryJournal) Recent(_ context.Context, limit int) ([]Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if limit <= 0 || limit > len(j.entries) {
		limit = len(j.entries)
	}
	out := make([]Entry, 0, limit)
	for i := len(j.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, j.entries[i])
	}
	return out, nil
}

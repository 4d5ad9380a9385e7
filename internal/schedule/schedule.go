package schedule

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/congo-pay/payinstr/internal/instruction"
)

// ErrInvalidExecuteBy is returned when an entry's execution date cannot be read.
var ErrInvalidExecuteBy = errors.New("scheduled transfer requires a YYYY-MM-DD execute_by date")

// Entry is a validated transfer waiting for its execution date.
type Entry struct {
	ID            string    `json:"id"`
	RequestID     string    `json:"request_id,omitempty"`
	Type          string    `json:"type"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	DebitAccount  string    `json:"debit_account"`
	CreditAccount string    `json:"credit_account"`
	ExecuteBy     string    `json:"execute_by"`
	ScheduledAt   time.Time `json:"scheduled_at"`
}

// Book keeps scheduled transfers ordered by execution date.
type Book interface {
	Add(ctx context.Context, entry Entry) error
	// Due lists entries whose execution date is on or before day.
	Due(ctx context.Context, day time.Time) ([]Entry, error)
}

// dayStart truncates t to midnight UTC.
func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type memoryBook struct {
	mu      sync.RWMutex
	entries []memoryEntry
}

type memoryEntry struct {
	date  time.Time
	entry Entry
}

// NewMemoryBook creates an in-process book, used when Redis is not configured.
func NewMemoryBook() Book {
	return &memoryBook{}
}

func (b *memoryBook) Add(_ context.Context, entry Entry) error {
	date, ok := instruction.ExecutionDate(entry.ExecuteBy)
	if !ok {
		return ErrInvalidExecuteBy
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append(b.entries, memoryEntry{date: date, entry: entry})
	sort.SliceStable(b.entries, func(i, j int) bool { return b.entries[i].date.Before(b.entries[j].date) })
	return nil
}

func (b *memoryBook) Due(_ context.Context, day time.Time) ([]Entry, error) {
	limit := dayStart(day)
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := []Entry{}
	for _, e := range b.entries {
		if e.date.After(limit) {
			break
		}
		out = append(out, e.entry)
	}
	return out, nil
}

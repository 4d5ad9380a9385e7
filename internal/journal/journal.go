package journal

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidEntry is returned when an entry lacks the fields every record needs.
var ErrInvalidEntry = errors.New("journal entry requires instruction status and code")

// Entry is an append-only record of one processed payment instruction.
// Pointer fields are nil when the instruction could not be parsed far enough
// to produce them.
type Entry struct {
	ID            uuid.UUID `json:"id"`
	RequestID     string    `json:"request_id,omitempty"`
	Instruction   string    `json:"instruction"`
	Status        string    `json:"status"`
	StatusCode    string    `json:"status_code"`
	StatusReason  string    `json:"status_reason"`
	Type          *string   `json:"type"`
	Amount        *int64    `json:"amount"`
	Currency      *string   `json:"currency"`
	DebitAccount  *string   `json:"debit_account"`
	CreditAccount *string   `json:"credit_account"`
	ExecuteBy     *string   `json:"execute_by"`
	ProcessedAt   time.Time `json:"processed_at"`
}

// Journal records processed instructions for later audit.
type Journal interface {
	Record(ctx context.Context, entry Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// prepare fills in generated fields and checks the mandatory ones.
func prepare(entry Entry) (Entry, error) {
	if entry.Status == "" || entry.StatusCode == "" {
		return Entry{}, ErrInvalidEntry
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.ProcessedAt.IsZero() {
		entry.ProcessedAt = time.Now().UTC()
	}
	return entry, nil
}

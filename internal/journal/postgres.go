package journal

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS instruction_journal (
    id             UUID PRIMARY KEY,
    request_id     TEXT NOT NULL DEFAULT '',
    instruction    TEXT NOT NULL,
    status         TEXT NOT NULL,
    status_code    TEXT NOT NULL,
    status_reason  TEXT NOT NULL,
    type           TEXT,
    amount         BIGINT,
    currency       TEXT,
    debit_account  TEXT,
    credit_account TEXT,
    execute_by     TEXT,
    processed_at   TIMESTAMPTZ NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS idx_instruction_journal_processed_at ON instruction_journal (processed_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_instruction_journal_status_code ON instruction_journal (status_code)`,
}

// PostgresJournal stores journal entries in PostgreSQL.
type PostgresJournal struct {
	db *pgxpool.Pool
}

// NewPostgresJournal constructs a Postgres-backed journal.
func NewPostgresJournal(db *pgxpool.Pool) *PostgresJournal {
	return &PostgresJournal{db: db}
}

// EnsureSchema creates the journal table and its indexes when missing.
func (j *PostgresJournal) EnsureSchema(ctx context.Context) error {
	for _, m := range migrations {
		if _, err := j.db.Exec(ctx, m); err != nil {
			return fmt.Errorf("create journal schema: %w", err)
		}
	}
	return nil
}

// Record inserts a single entry.
func (j *PostgresJournal) Record(ctx context.Context, entry Entry) error {
	entry, err := prepare(entry)
	if err != nil {
		return err
	}
	_, err = j.db.Exec(ctx, `INSERT INTO instruction_journal
        (id, request_id, instruction, status, status_code, status_reason, type, amount, currency, debit_account, credit_account, execute_by, processed_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		entry.ID, entry.RequestID, entry.Instruction, entry.Status, entry.StatusCode, entry.StatusReason,
		entry.Type, entry.Amount, entry.Currency, entry.DebitAccount, entry.CreditAccount, entry.ExecuteBy,
		entry.ProcessedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries ordered by processing time, newest first.
func (j *PostgresJournal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := j.db.Query(ctx, `SELECT id, request_id, instruction, status, status_code, status_reason,
        type, amount, currency, debit_account, credit_account, execute_by, processed_at
        FROM instruction_journal ORDER BY processed_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
		var e Entry
		err := row.Scan(&e.ID, &e.RequestID, &e.Instruction, &e.Status, &e.StatusCode, &e.StatusReason,
			&e.Type, &e.Amount, &e.Currency, &e.DebitAccount, &e.CreditAccount, &e.ExecuteBy, &e.ProcessedAt)
		e.ProcessedAt = e.ProcessedAt.UTC()
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan journal: %w", err)
	}
	return entries, nil
}

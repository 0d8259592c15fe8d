package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/arret/internal/ports/secondary"
)

// WriteJournalRepository implements secondary.WriteJournal with SQLite.
type WriteJournalRepository struct {
	db *sql.DB
}

// NewWriteJournalRepository creates a new SQLite write journal.
func NewWriteJournalRepository(db *sql.DB) *WriteJournalRepository {
	return &WriteJournalRepository{db: db}
}

// Append records a pending write and returns its ID.
func (r *WriteJournalRepository) Append(ctx context.Context, entry *secondary.JournalEntryRecord) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO write_journal (storage_key, payload, session_id, created_at) VALUES (?, ?, ?, ?)",
		entry.StorageKey, string(entry.Payload), entry.SessionID, time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to append journal entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read journal entry id: %w", err)
	}
	entry.ID = id
	return id, nil
}

// ListPending returns unapplied entries, oldest first.
func (r *WriteJournalRepository) ListPending(ctx context.Context) ([]*secondary.JournalEntryRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, storage_key, payload, session_id, created_at FROM write_journal WHERE applied_at IS NULL ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending journal entries: %w", err)
	}
	defer rows.Close()

	var entries []*secondary.JournalEntryRecord
	for rows.Next() {
		var (
			e         secondary.JournalEntryRecord
			payload   string
			createdAt time.Time
		)
		if err := rows.Scan(&e.ID, &e.StorageKey, &payload, &e.SessionID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		e.Payload = []byte(payload)
		e.CreatedAt = createdAt.Format(time.RFC3339)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// MarkApplied marks entries as written to the store.
func (r *WriteJournalRepository) MarkApplied(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids)+1)
	args = append(args, time.Now().UTC())
	for _, id := range ids {
		args = append(args, id)
	}

	_, err := r.db.ExecContext(ctx,
		"UPDATE write_journal SET applied_at = ? WHERE id IN ("+placeholders+") AND applied_at IS NULL",
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to mark journal entries applied: %w", err)
	}
	return nil
}

// CountPending returns the number of unapplied entries.
func (r *WriteJournalRepository) CountPending(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM write_journal WHERE applied_at IS NULL").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending journal entries: %w", err)
	}
	return count, nil
}

// Prune deletes applied entries older than the given age.
func (r *WriteJournalRepository) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM write_journal WHERE applied_at IS NOT NULL AND applied_at < ?",
		time.Now().UTC().Add(-olderThan),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune journal: %w", err)
	}
	return res.RowsAffected()
}

// Ensure WriteJournalRepository implements the interface
var _ secondary.WriteJournal = (*WriteJournalRepository)(nil)

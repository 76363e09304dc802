package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"popcat/database"
	"popcat/models"
)

// BalanceEntryRepository implements the service.BalanceEntryRepository
// interface.
type BalanceEntryRepository struct {
	q queryable
}

// NewBalanceEntryRepository creates a new balance entry repository.
func NewBalanceEntryRepository(db *database.DB) *BalanceEntryRepository {
	return &BalanceEntryRepository{q: db.Pool}
}

func newBalanceEntryRepositoryWithTx(tx queryable) *BalanceEntryRepository {
	return &BalanceEntryRepository{q: tx}
}

// Record appends one audit entry. Callers invoke this inside the same
// transaction as the balance mutation it describes.
func (r *BalanceEntryRepository) Record(ctx context.Context, entry *models.BalanceEntry) error {
	metadata := entry.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal balance entry metadata: %w", err)
	}

	query := `
		INSERT INTO balance_entries (
			user_id, pocket_before, pocket_after, bank_before, bank_after,
			change_amount, transaction_type, metadata
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		entry.UserID, entry.PocketBefore, entry.PocketAfter,
		entry.BankBefore, entry.BankAfter, entry.ChangeAmount,
		string(entry.TransactionType), metadataJSON,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record balance entry for user %d: %w", entry.UserID, err)
	}
	return nil
}

// ListByUser returns the user's most recent audit entries, newest first.
func (r *BalanceEntryRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*models.BalanceEntry, error) {
	query := `
		SELECT id, user_id, pocket_before, pocket_after, bank_before, bank_after,
		       change_amount, transaction_type, metadata, created_at
		FROM balance_entries
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list balance entries for user %d: %w", userID, err)
	}
	defer rows.Close()

	var entries []*models.BalanceEntry
	for rows.Next() {
		var e models.BalanceEntry
		var metadataJSON []byte
		err := rows.Scan(
			&e.ID, &e.UserID, &e.PocketBefore, &e.PocketAfter,
			&e.BankBefore, &e.BankAfter, &e.ChangeAmount,
			&e.TransactionType, &metadataJSON, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan balance entry: %w", err)
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &e.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal balance entry metadata: %w", err)
			}
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balance entries: %w", err)
	}
	return entries, nil
}

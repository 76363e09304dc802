package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"popcat/database"
	"popcat/models"
)

// CommandCountRepository implements the service.CommandCountRepository
// interface.
type CommandCountRepository struct {
	q queryable
}

// NewCommandCountRepository creates a new command count repository.
func NewCommandCountRepository(db *database.DB) *CommandCountRepository {
	return &CommandCountRepository{q: db.Pool}
}

func newCommandCountRepositoryWithTx(tx queryable) *CommandCountRepository {
	return &CommandCountRepository{q: tx}
}

// Increment bumps the usage counter for one scope.
func (r *CommandCountRepository) Increment(ctx context.Context, scope models.CommandScope, scopeID int64) error {
	query := `
		INSERT INTO command_counts (scope, scope_id, count)
		VALUES ($1, $2, 1)
		ON CONFLICT (scope, scope_id) DO UPDATE
		SET count = command_counts.count + 1
	`

	if _, err := r.q.Exec(ctx, query, string(scope), scopeID); err != nil {
		return fmt.Errorf("failed to increment %s command count for %d: %w", scope, scopeID, err)
	}
	return nil
}

// Get returns the usage counter for one scope; zero if never used.
func (r *CommandCountRepository) Get(ctx context.Context, scope models.CommandScope, scopeID int64) (int64, error) {
	query := `
		SELECT count
		FROM command_counts
		WHERE scope = $1 AND scope_id = $2
	`

	var count int64
	err := r.q.QueryRow(ctx, query, string(scope), scopeID).Scan(&count)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get %s command count for %d: %w", scope, scopeID, err)
	}
	return count, nil
}

// Total sums all counters in one scope namespace.
func (r *CommandCountRepository) Total(ctx context.Context, scope models.CommandScope) (int64, error) {
	query := `
		SELECT COALESCE(SUM(count), 0)
		FROM command_counts
		WHERE scope = $1
	`

	var total int64
	if err := r.q.QueryRow(ctx, query, string(scope)).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum %s command counts: %w", scope, err)
	}
	return total, nil
}

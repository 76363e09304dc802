package repository

import (
	"context"
	"fmt"

	"popcat/database"
	"popcat/models"
)

// WarningRepository implements the service.WarningRepository interface.
// Warnings are addressed by position in creation order per (guild, user), so
// removing one renumbers those after it.
type WarningRepository struct {
	q queryable
}

// NewWarningRepository creates a new warning repository.
func NewWarningRepository(db *database.DB) *WarningRepository {
	return &WarningRepository{q: db.Pool}
}

func newWarningRepositoryWithTx(tx queryable) *WarningRepository {
	return &WarningRepository{q: tx}
}

// Add records a warning against a user.
func (r *WarningRepository) Add(ctx context.Context, warning *models.Warning) error {
	query := `
		INSERT INTO warnings (guild_id, user_id, moderator_id, reason)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		warning.GuildID, warning.UserID, warning.ModeratorID, warning.Reason,
	).Scan(&warning.ID, &warning.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add warning for user %d in guild %d: %w", warning.UserID, warning.GuildID, err)
	}
	return nil
}

// ListByUser returns a user's warnings in creation order.
func (r *WarningRepository) ListByUser(ctx context.Context, guildID, userID int64) ([]*models.Warning, error) {
	query := `
		SELECT id, guild_id, user_id, moderator_id, reason, created_at
		FROM warnings
		WHERE guild_id = $1 AND user_id = $2
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list warnings for user %d in guild %d: %w", userID, guildID, err)
	}
	defer rows.Close()

	var warnings []*models.Warning
	for rows.Next() {
		var w models.Warning
		err := rows.Scan(&w.ID, &w.GuildID, &w.UserID, &w.ModeratorID, &w.Reason, &w.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan warning: %w", err)
		}
		warnings = append(warnings, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate warnings: %w", err)
	}
	return warnings, nil
}

// RemoveByPosition deletes the user's Nth warning in creation order
// (1-based) and reports whether a warning existed at that position.
func (r *WarningRepository) RemoveByPosition(ctx context.Context, guildID, userID int64, position int) (bool, error) {
	if position < 1 {
		return false, fmt.Errorf("%w: warning position must be at least 1", models.ErrValidation)
	}

	query := `
		DELETE FROM warnings
		WHERE id = (
			SELECT id FROM warnings
			WHERE guild_id = $1 AND user_id = $2
			ORDER BY id
			OFFSET $3 LIMIT 1
		)
	`

	result, err := r.q.Exec(ctx, query, guildID, userID, position-1)
	if err != nil {
		return false, fmt.Errorf("failed to remove warning %d for user %d in guild %d: %w", position, userID, guildID, err)
	}
	return result.RowsAffected() > 0, nil
}

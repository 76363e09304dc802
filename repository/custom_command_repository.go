package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"popcat/database"
	"popcat/models"
)

// CustomCommandRepository implements the service.CustomCommandRepository
// interface.
type CustomCommandRepository struct {
	q queryable
}

// NewCustomCommandRepository creates a new custom command repository.
func NewCustomCommandRepository(db *database.DB) *CustomCommandRepository {
	return &CustomCommandRepository{q: db.Pool}
}

func newCustomCommandRepositoryWithTx(tx queryable) *CustomCommandRepository {
	return &CustomCommandRepository{q: tx}
}

// Create registers a trigger/response pair and reports whether it was new.
// An existing trigger is left untouched.
func (r *CustomCommandRepository) Create(ctx context.Context, cmd *models.CustomCommand) (bool, error) {
	query := `
		INSERT INTO custom_commands (guild_id, trigger, response)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, trigger) DO NOTHING
	`

	result, err := r.q.Exec(ctx, query, cmd.GuildID, cmd.Trigger, cmd.Response)
	if err != nil {
		return false, fmt.Errorf("failed to create custom command %q in guild %d: %w", cmd.Trigger, cmd.GuildID, err)
	}
	return result.RowsAffected() > 0, nil
}

// Get returns the command for a trigger, or nil if the guild has none.
func (r *CustomCommandRepository) Get(ctx context.Context, guildID int64, trigger string) (*models.CustomCommand, error) {
	query := `
		SELECT guild_id, trigger, response
		FROM custom_commands
		WHERE guild_id = $1 AND trigger = $2
	`

	var c models.CustomCommand
	err := r.q.QueryRow(ctx, query, guildID, trigger).Scan(&c.GuildID, &c.Trigger, &c.Response)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get custom command %q in guild %d: %w", trigger, guildID, err)
	}
	return &c, nil
}

// Delete removes a trigger and reports whether it existed.
func (r *CustomCommandRepository) Delete(ctx context.Context, guildID int64, trigger string) (bool, error) {
	query := `
		DELETE FROM custom_commands
		WHERE guild_id = $1 AND trigger = $2
	`

	result, err := r.q.Exec(ctx, query, guildID, trigger)
	if err != nil {
		return false, fmt.Errorf("failed to delete custom command %q in guild %d: %w", trigger, guildID, err)
	}
	return result.RowsAffected() > 0, nil
}

// List returns all of a guild's custom commands ordered by trigger.
func (r *CustomCommandRepository) List(ctx context.Context, guildID int64) ([]*models.CustomCommand, error) {
	query := `
		SELECT guild_id, trigger, response
		FROM custom_commands
		WHERE guild_id = $1
		ORDER BY trigger
	`

	rows, err := r.q.Query(ctx, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list custom commands for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	var cmds []*models.CustomCommand
	for rows.Next() {
		var c models.CustomCommand
		if err := rows.Scan(&c.GuildID, &c.Trigger, &c.Response); err != nil {
			return nil, fmt.Errorf("failed to scan custom command: %w", err)
		}
		cmds = append(cmds, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate custom commands: %w", err)
	}
	return cmds, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"popcat/database"
	"popcat/models"
)

// GuildConfigRepository implements the service.GuildConfigRepository
// interface.
type GuildConfigRepository struct {
	q queryable
}

// NewGuildConfigRepository creates a new guild config repository.
func NewGuildConfigRepository(db *database.DB) *GuildConfigRepository {
	return &GuildConfigRepository{q: db.Pool}
}

func newGuildConfigRepositoryWithTx(tx queryable) *GuildConfigRepository {
	return &GuildConfigRepository{q: tx}
}

// GetOrCreate returns the guild's config, inserting an all-disabled row on
// first touch.
func (r *GuildConfigRepository) GetOrCreate(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	insert := `
		INSERT INTO guild_configs (guild_id)
		VALUES ($1)
		ON CONFLICT (guild_id) DO NOTHING
	`
	if _, err := r.q.Exec(ctx, insert, guildID); err != nil {
		return nil, fmt.Errorf("failed to create config for guild %d: %w", guildID, err)
	}

	query := `
		SELECT guild_id, welcome_channel_id, welcome_message, ticket_category_id,
		       ticket_role_id, suggestion_channel_id, chatbot_channel_id
		FROM guild_configs
		WHERE guild_id = $1
	`

	var c models.GuildConfig
	err := r.q.QueryRow(ctx, query, guildID).Scan(
		&c.GuildID, &c.WelcomeChannelID, &c.WelcomeMessage,
		&c.TicketCategoryID, &c.TicketRoleID,
		&c.SuggestionChannelID, &c.ChatbotChannelID,
	)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("%w: config for guild %d", models.ErrNotFound, guildID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get config for guild %d: %w", guildID, err)
	}
	return &c, nil
}

// Update overwrites the guild's config with the given state.
func (r *GuildConfigRepository) Update(ctx context.Context, config *models.GuildConfig) error {
	query := `
		INSERT INTO guild_configs (
			guild_id, welcome_channel_id, welcome_message, ticket_category_id,
			ticket_role_id, suggestion_channel_id, chatbot_channel_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (guild_id) DO UPDATE SET
			welcome_channel_id    = EXCLUDED.welcome_channel_id,
			welcome_message       = EXCLUDED.welcome_message,
			ticket_category_id    = EXCLUDED.ticket_category_id,
			ticket_role_id        = EXCLUDED.ticket_role_id,
			suggestion_channel_id = EXCLUDED.suggestion_channel_id,
			chatbot_channel_id    = EXCLUDED.chatbot_channel_id
	`

	_, err := r.q.Exec(ctx, query,
		config.GuildID, config.WelcomeChannelID, config.WelcomeMessage,
		config.TicketCategoryID, config.TicketRoleID,
		config.SuggestionChannelID, config.ChatbotChannelID,
	)
	if err != nil {
		return fmt.Errorf("failed to update config for guild %d: %w", config.GuildID, err)
	}
	return nil
}

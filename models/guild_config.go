package models

import "time"

// GuildConfig holds per-guild feature configuration. Each module's fields
// are independently nullable; a nil channel or category means that module is
// disabled for the guild. There are no cross-module invariants.
type GuildConfig struct {
	GuildID             int64  `db:"guild_id"`
	WelcomeChannelID    *int64 `db:"welcome_channel_id"`
	WelcomeMessage      *string `db:"welcome_message"`
	TicketCategoryID    *int64 `db:"ticket_category_id"`
	TicketRoleID        *int64 `db:"ticket_role_id"`
	SuggestionChannelID *int64 `db:"suggestion_channel_id"`
	ChatbotChannelID    *int64 `db:"chatbot_channel_id"`
}

// WelcomeEnabled reports whether the welcome module is configured.
func (g *GuildConfig) WelcomeEnabled() bool {
	return g.WelcomeChannelID != nil
}

// TicketEnabled reports whether the ticket module is configured.
func (g *GuildConfig) TicketEnabled() bool {
	return g.TicketCategoryID != nil && g.TicketRoleID != nil
}

// CustomCommand is a per-guild trigger/response pair. Trigger is unique
// within a guild.
type CustomCommand struct {
	GuildID  int64  `db:"guild_id"`
	Trigger  string `db:"trigger"`
	Response string `db:"response"`
}

// Warning is one moderation warning. Warnings are position-addressable per
// (guild, user): the Nth warning in creation order.
type Warning struct {
	ID          int64     `db:"id"`
	GuildID     int64     `db:"guild_id"`
	UserID      int64     `db:"user_id"`
	ModeratorID int64     `db:"moderator_id"`
	Reason      string    `db:"reason"`
	CreatedAt   time.Time `db:"created_at"`
}

// CommandScope distinguishes the two command-usage counter namespaces.
type CommandScope string

const (
	CommandScopeUser  CommandScope = "user"
	CommandScopeGuild CommandScope = "guild"
)

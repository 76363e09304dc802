package common

import (
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// GetDisplayName returns the server-specific display name for a user
// Falls back to username if nickname is not set or if there's an error
func GetDisplayName(s *discordgo.Session, guildID, userID string) string {
	// Try to get guild member for server-specific nickname
	member, err := s.GuildMember(guildID, userID)
	if err == nil && member != nil {
		// Return nickname if set, otherwise username
		if member.Nick != "" {
			return member.Nick
		}
		if member.User != nil {
			return member.User.Username
		}
	}

	// Fallback to just getting the user
	user, err := s.User(userID)
	if err == nil && user != nil {
		return user.Username
	}

	return "Unknown"
}

// GetDisplayNameInt64 is a convenience wrapper that accepts int64 user IDs
func GetDisplayNameInt64(s *discordgo.Session, guildID string, userID int64) string {
	return GetDisplayName(s, guildID, strconv.FormatInt(userID, 10))
}

// InteractionUser returns the invoking user for both guild and DM interactions
func InteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// InteractionUserID parses the invoking user's snowflake as int64
func InteractionUserID(i *discordgo.InteractionCreate) (int64, error) {
	return strconv.ParseInt(InteractionUser(i).ID, 10, 64)
}

// ParseSnowflake parses a Discord snowflake as int64, zero on failure
func ParseSnowflake(id string) int64 {
	parsed, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0
	}
	return parsed
}

// InteractionGuildID parses the guild snowflake, zero for direct messages
func InteractionGuildID(i *discordgo.InteractionCreate) int64 {
	if i.GuildID == "" {
		return 0
	}
	id, err := strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

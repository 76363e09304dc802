package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"popcat/bot/common"
)

// handleMessageCreate covers the passive features that hang off ordinary
// chat messages: AFK markers, custom command triggers and suggestion
// reactions.
func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	ctx, cancel := common.CommandContext()
	defer cancel()

	b.clearAFKOnActivity(ctx, s, m)
	b.announceMentionedAFK(ctx, s, m)

	if m.GuildID == "" {
		return
	}
	guildID := common.ParseSnowflake(m.GuildID)
	if guildID == 0 {
		return
	}

	b.answerCustomCommand(ctx, s, m, guildID)
	b.reactToSuggestion(ctx, s, m, guildID)
	b.relayChatMessage(ctx, s, m, guildID)
}

// clearAFKOnActivity welcomes a user back the moment they speak again
func (b *Bot) clearAFKOnActivity(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	userID := common.ParseSnowflake(m.Author.ID)
	if userID == 0 {
		return
	}

	existed, err := b.afkStore.Clear(ctx, userID)
	if err != nil {
		log.Warnf("Failed to clear AFK for user %d: %v", userID, err)
		return
	}
	if existed {
		if _, err := s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("👋 Welcome back, <@%s>! I removed your AFK.", m.Author.ID)); err != nil {
			log.Warnf("Failed to send AFK welcome back: %v", err)
		}
	}
}

// announceMentionedAFK tells the channel when a mentioned user is away
func (b *Bot) announceMentionedAFK(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	for _, mentioned := range m.Mentions {
		if mentioned.Bot || mentioned.ID == m.Author.ID {
			continue
		}
		userID := common.ParseSnowflake(mentioned.ID)
		if userID == 0 {
			continue
		}

		status, err := b.afkStore.Get(ctx, userID)
		if err != nil {
			log.Warnf("Failed to look up AFK for user %d: %v", userID, err)
			continue
		}
		if status == nil {
			continue
		}

		msg := fmt.Sprintf("💤 **%s** is AFK: %s (%s)", mentioned.Username, status.Reason, common.FormatDiscordTimestamp(status.Since, "R"))
		if _, err := s.ChannelMessageSend(m.ChannelID, msg); err != nil {
			log.Warnf("Failed to announce AFK mention: %v", err)
		}
	}
}

// answerCustomCommand replies when the whole message matches a guild trigger
func (b *Bot) answerCustomCommand(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, guildID int64) {
	trigger := strings.TrimSpace(m.Content)
	if trigger == "" || strings.ContainsRune(trigger, ' ') {
		return
	}

	cmd, err := b.guildService.CustomCommandResponse(ctx, guildID, trigger)
	if err != nil {
		log.Warnf("Failed to look up custom command %q in guild %d: %v", trigger, guildID, err)
		return
	}
	if cmd == nil {
		return
	}

	if _, err := s.ChannelMessageSend(m.ChannelID, cmd.Response); err != nil {
		log.Warnf("Failed to answer custom command %q: %v", cmd.Trigger, err)
	}
}

// reactToSuggestion adds vote reactions to messages in the suggestion channel
func (b *Bot) reactToSuggestion(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, guildID int64) {
	config, err := b.guildService.Config(ctx, guildID)
	if err != nil {
		log.Warnf("Failed to fetch config for guild %d: %v", guildID, err)
		return
	}
	if config.SuggestionChannelID == nil || m.ChannelID != fmt.Sprintf("%d", *config.SuggestionChannelID) {
		return
	}

	for _, emoji := range []string{"👍", "👎"} {
		if err := s.MessageReactionAdd(m.ChannelID, m.ID, emoji); err != nil {
			log.Warnf("Failed to add suggestion reaction: %v", err)
		}
	}
}

// relayChatMessage answers messages in the guild's chatbot channel through
// the chat API. Skipped entirely when no API credentials were configured.
func (b *Bot) relayChatMessage(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, guildID int64) {
	if b.chatClient == nil {
		return
	}

	config, err := b.guildService.Config(ctx, guildID)
	if err != nil {
		log.Warnf("Failed to fetch config for guild %d: %v", guildID, err)
		return
	}
	if config.ChatbotChannelID == nil || m.ChannelID != fmt.Sprintf("%d", *config.ChatbotChannelID) {
		return
	}

	userID := common.ParseSnowflake(m.Author.ID)
	if userID == 0 {
		return
	}

	reply, err := b.chatClient.Reply(ctx, userID, m.Content)
	if err != nil {
		log.Warnf("Failed to fetch chat reply in guild %d: %v", guildID, err)
		return
	}

	if _, err := s.ChannelMessageSendReply(m.ChannelID, reply, m.Reference()); err != nil {
		log.Warnf("Failed to send chat reply: %v", err)
	}
}

// handleGuildMemberAdd posts the configured welcome message for new members
func (b *Bot) handleGuildMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	guildID := common.ParseSnowflake(m.GuildID)
	if guildID == 0 || m.User == nil {
		return
	}

	config, err := b.guildService.Config(ctx, guildID)
	if err != nil {
		log.Warnf("Failed to fetch config for guild %d: %v", guildID, err)
		return
	}
	if !config.WelcomeEnabled() {
		return
	}

	message := "Welcome, {user}!"
	if config.WelcomeMessage != nil && *config.WelcomeMessage != "" {
		message = *config.WelcomeMessage
	}
	message = strings.ReplaceAll(message, "{user}", m.User.Mention())

	channelID := fmt.Sprintf("%d", *config.WelcomeChannelID)
	if _, err := s.ChannelMessageSend(channelID, message); err != nil {
		log.Warnf("Failed to send welcome message in guild %d: %v", guildID, err)
	}
}

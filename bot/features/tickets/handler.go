package tickets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"popcat/bot/common"
)

func (f *Feature) handleOpen(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	guildID := common.InteractionGuildID(i)
	if guildID == 0 {
		common.RespondWithError(s, i, "Tickets only work inside a server.")
		return
	}

	config, err := f.guildService.Config(ctx, guildID)
	if err != nil {
		log.Errorf("Error fetching config for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, common.UserFacingError(err))
		return
	}
	if !config.TicketEnabled() {
		common.RespondWithError(s, i, "The ticket system isn't set up on this server.")
		return
	}

	user := common.InteractionUser(i)

	// Short random suffix keeps channel names unique without leaking a
	// guessable counter.
	suffix := strings.Split(uuid.NewString(), "-")[0]
	name := fmt.Sprintf("ticket-%s", suffix)

	overwrites := []*discordgo.PermissionOverwrite{
		{
			ID:   i.GuildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		{
			ID:    user.ID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages,
		},
		{
			ID:    strconv.FormatInt(*config.TicketRoleID, 10),
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages,
		},
	}

	channel, err := s.GuildChannelCreateComplex(i.GuildID, discordgo.GuildChannelCreateData{
		Name:                 name,
		Type:                 discordgo.ChannelTypeGuildText,
		ParentID:             strconv.FormatInt(*config.TicketCategoryID, 10),
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		log.Errorf("Error creating ticket channel in guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Unable to open a ticket. Please try again.")
		return
	}

	if _, err := s.ChannelMessageSend(channel.ID, fmt.Sprintf("<@%s>, a <@&%d> member will be with you shortly.", user.ID, *config.TicketRoleID)); err != nil {
		log.Errorf("Error posting ticket greeting in %s: %v", channel.ID, err)
	}

	msg := fmt.Sprintf("🎫 Opened <#%s>.", channel.ID)
	if err := common.RespondWithContent(s, i, msg, true); err != nil {
		log.Errorf("Error responding to ticket open: %v", err)
	}
}

func (f *Feature) handleClose(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	guildID := common.InteractionGuildID(i)
	if guildID == 0 {
		common.RespondWithError(s, i, "Tickets only work inside a server.")
		return
	}

	config, err := f.guildService.Config(ctx, guildID)
	if err != nil {
		log.Errorf("Error fetching config for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, common.UserFacingError(err))
		return
	}
	if !config.TicketEnabled() {
		common.RespondWithError(s, i, "The ticket system isn't set up on this server.")
		return
	}

	channel, err := s.Channel(i.ChannelID)
	if err != nil {
		log.Errorf("Error fetching channel %s: %v", i.ChannelID, err)
		common.RespondWithError(s, i, "Unable to close this ticket. Please try again.")
		return
	}

	// Only channels under the ticket category can be closed this way.
	if channel.ParentID != strconv.FormatInt(*config.TicketCategoryID, 10) {
		common.RespondWithError(s, i, "This isn't a ticket channel.")
		return
	}

	if err := common.RespondWithContent(s, i, "🎫 Closing this ticket.", false); err != nil {
		log.Errorf("Error responding to ticket close: %v", err)
	}
	if _, err := s.ChannelDelete(channel.ID); err != nil {
		log.Errorf("Error deleting ticket channel %s: %v", channel.ID, err)
	}
}

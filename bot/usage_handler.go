package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"popcat/bot/common"
	"popcat/models"
)

// handleUsage answers the command-usage counters for either the invoking
// user or the whole server.
func (b *Bot) handleUsage(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	scope := "me"
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "scope" {
			scope = opt.StringValue()
		}
	}

	var count int64
	var err error
	var msg string
	switch scope {
	case "server":
		guildID := common.InteractionGuildID(i)
		if guildID == 0 {
			common.RespondWithError(s, i, "Server usage only works inside a server.")
			return
		}
		count, err = b.guildService.CommandCount(ctx, models.CommandScopeGuild, guildID)
		msg = fmt.Sprintf("📊 This server has run **%s** commands.", common.FormatCoins(count))
	default:
		var userID int64
		userID, err = common.InteractionUserID(i)
		if err != nil {
			common.RespondWithError(s, i, "Unable to process request. Please try again.")
			return
		}
		count, err = b.guildService.CommandCount(ctx, models.CommandScopeUser, userID)
		msg = fmt.Sprintf("📊 You've run **%s** commands.", common.FormatCoins(count))
	}
	if err != nil {
		log.Errorf("Error fetching command count: %v", err)
		common.RespondWithError(s, i, common.UserFacingError(err))
		return
	}

	if err := common.RespondWithContent(s, i, msg, true); err != nil {
		log.Errorf("Error responding to usage command: %v", err)
	}
}

package moderation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"popcat/bot/common"
	"popcat/models"
)

func (f *Feature) handleAdd(s *discordgo.Session, i *discordgo.InteractionCreate, opt *discordgo.ApplicationCommandInteractionDataOption) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	guildID := common.InteractionGuildID(i)
	if guildID == 0 {
		common.RespondWithError(s, i, "Warnings only work inside a server.")
		return
	}

	moderatorID, err := common.InteractionUserID(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	var target *discordgo.User
	var reason string
	for _, sub := range opt.Options {
		switch sub.Name {
		case "user":
			target = sub.UserValue(s)
		case "reason":
			reason = sub.StringValue()
		}
	}
	if target == nil {
		common.RespondWithError(s, i, "Invalid user.")
		return
	}

	targetID, err := strconv.ParseInt(target.ID, 10, 64)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	warning, err := f.guildService.Warn(ctx, guildID, targetID, moderatorID, reason)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			common.RespondWithError(s, i, "A reason is required.")
			return
		}
		log.Errorf("Error warning user %d in guild %d: %v", targetID, guildID, err)
		common.RespondWithError(s, i, common.UserFacingError(err))
		return
	}

	msg := fmt.Sprintf("⚠️ Warned <@%s>: %s", target.ID, warning.Reason)
	if err := common.RespondWithContent(s, i, msg, false); err != nil {
		log.Errorf("Error responding to warn add: %v", err)
	}
}

func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate, opt *discordgo.ApplicationCommandInteractionDataOption) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	guildID := common.InteractionGuildID(i)
	if guildID == 0 {
		common.RespondWithError(s, i, "Warnings only work inside a server.")
		return
	}

	var target *discordgo.User
	for _, sub := range opt.Options {
		if sub.Name == "user" {
			target = sub.UserValue(s)
		}
	}
	if target == nil {
		common.RespondWithError(s, i, "Invalid user.")
		return
	}

	targetID, err := strconv.ParseInt(target.ID, 10, 64)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	warnings, err := f.guildService.Warnings(ctx, guildID, targetID)
	if err != nil {
		log.Errorf("Error listing warnings for user %d in guild %d: %v", targetID, guildID, err)
		common.RespondWithError(s, i, common.UserFacingError(err))
		return
	}

	if len(warnings) == 0 {
		common.RespondWithError(s, i, fmt.Sprintf("%s has no warnings.", target.Username))
		return
	}

	var lines []string
	for position, warning := range warnings {
		lines = append(lines, fmt.Sprintf("**%d.** %s — by <@%d>, %s",
			position+1, warning.Reason, warning.ModeratorID,
			common.FormatDiscordTimestamp(warning.CreatedAt, "R")))
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Warnings for %s", target.Username),
		Description: strings.Join(lines, "\n"),
		Color:       0xE74C3C,
	}
	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Errorf("Error responding to warn list: %v", err)
	}
}

func (f *Feature) handleRemove(s *discordgo.Session, i *discordgo.InteractionCreate, opt *discordgo.ApplicationCommandInteractionDataOption) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	guildID := common.InteractionGuildID(i)
	if guildID == 0 {
		common.RespondWithError(s, i, "Warnings only work inside a server.")
		return
	}

	var target *discordgo.User
	var position int64
	for _, sub := range opt.Options {
		switch sub.Name {
		case "user":
			target = sub.UserValue(s)
		case "position":
			position = sub.IntValue()
		}
	}
	if target == nil || position < 1 {
		common.RespondWithError(s, i, "A user and a warning number are required.")
		return
	}

	targetID, err := strconv.ParseInt(target.ID, 10, 64)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	removed, err := f.guildService.RemoveWarning(ctx, guildID, targetID, int(position))
	if err != nil {
		log.Errorf("Error removing warning %d for user %d in guild %d: %v", position, targetID, guildID, err)
		common.RespondWithError(s, i, common.UserFacingError(err))
		return
	}

	if !removed {
		common.RespondWithError(s, i, fmt.Sprintf("%s doesn't have a warning #%d.", target.Username, position))
		return
	}

	msg := fmt.Sprintf("✅ Removed warning #%d from <@%s>.", position, target.ID)
	if err := common.RespondWithContent(s, i, msg, false); err != nil {
		log.Errorf("Error responding to warn remove: %v", err)
	}
}

package customcommands

import (
	"errors"
	"fmt"
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
		common.RespondWithError(s, i, "Custom commands only work inside a server.")
		return
	}

	var trigger, response string
	for _, sub := range opt.Options {
		switch sub.Name {
		case "trigger":
			trigger = sub.StringValue()
		case "response":
			response = sub.StringValue()
		}
	}

	created, err := f.guildService.AddCustomCommand(ctx, guildID, trigger, response)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			common.RespondWithError(s, i, "Both a trigger and a response are required.")
			return
		}
		log.Errorf("Error adding custom command %q in guild %d: %v", trigger, guildID, err)
		common.RespondWithError(s, i, common.UserFacingError(err))
		return
	}

	if !created {
		common.RespondWithError(s, i, fmt.Sprintf("**%s** is already taken. Remove it first.", strings.ToLower(strings.TrimSpace(trigger))))
		return
	}

	msg := fmt.Sprintf("✅ Added custom command **%s**.", strings.ToLower(strings.TrimSpace(trigger)))
	if err := common.RespondWithContent(s, i, msg, false); err != nil {
		log.Errorf("Error responding to custom add: %v", err)
	}
}

func (f *Feature) handleRemove(s *discordgo.Session, i *discordgo.InteractionCreate, opt *discordgo.ApplicationCommandInteractionDataOption) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	guildID := common.InteractionGuildID(i)
	if guildID == 0 {
		common.RespondWithError(s, i, "Custom commands only work inside a server.")
		return
	}

	var trigger string
	for _, sub := range opt.Options {
		if sub.Name == "trigger" {
			trigger = sub.StringValue()
		}
	}

	removed, err := f.guildService.RemoveCustomCommand(ctx, guildID, trigger)
	if err != nil {
		log.Errorf("Error removing custom command %q in guild %d: %v", trigger, guildID, err)
		common.RespondWithError(s, i, common.UserFacingError(err))
		return
	}

	if !removed {
		common.RespondWithError(s, i, fmt.Sprintf("There's no custom command called **%s**.", trigger))
		return
	}

	msg := fmt.Sprintf("🗑️ Removed custom command **%s**.", strings.ToLower(strings.TrimSpace(trigger)))
	if err := common.RespondWithContent(s, i, msg, false); err != nil {
		log.Errorf("Error responding to custom remove: %v", err)
	}
}

func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	guildID := common.InteractionGuildID(i)
	if guildID == 0 {
		common.RespondWithError(s, i, "Custom commands only work inside a server.")
		return
	}

	commands, err := f.guildService.ListCustomCommands(ctx, guildID)
	if err != nil {
		log.Errorf("Error listing custom commands in guild %d: %v", guildID, err)
		common.RespondWithError(s, i, common.UserFacingError(err))
		return
	}

	if len(commands) == 0 {
		common.RespondWithError(s, i, "This server has no custom commands yet.")
		return
	}

	triggers := make([]string, 0, len(commands))
	for _, cmd := range commands {
		triggers = append(triggers, fmt.Sprintf("`%s`", cmd.Trigger))
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Custom Commands",
		Description: strings.Join(triggers, ", "),
		Color:       0x95A5A6,
	}
	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Errorf("Error responding to custom list: %v", err)
	}
}

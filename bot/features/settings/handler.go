package settings

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"popcat/bot/common"
)

func (f *Feature) handleShow(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	guildID := common.InteractionGuildID(i)
	if guildID == 0 {
		common.RespondWithError(s, i, "Settings only work inside a server.")
		return
	}

	config, err := f.guildService.Config(ctx, guildID)
	if err != nil {
		log.Errorf("Error fetching config for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, common.UserFacingError(err))
		return
	}

	channel := func(id *int64) string {
		if id == nil {
			return "disabled"
		}
		return fmt.Sprintf("<#%d>", *id)
	}
	ticket := "disabled"
	if config.TicketEnabled() {
		ticket = fmt.Sprintf("category <#%d>, role <@&%d>", *config.TicketCategoryID, *config.TicketRoleID)
	}

	embed := &discordgo.MessageEmbed{
		Title: "Server Settings",
		Color: 0x95A5A6,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Welcome", Value: channel(config.WelcomeChannelID), Inline: true},
			{Name: "Tickets", Value: ticket, Inline: true},
			{Name: "Suggestions", Value: channel(config.SuggestionChannelID), Inline: true},
			{Name: "Chatbot", Value: channel(config.ChatbotChannelID), Inline: true},
		},
	}
	if err := common.RespondWithEmbed(s, i, embed, true); err != nil {
		log.Errorf("Error responding to settings show: %v", err)
	}
}

// handleModule routes one module's set/disable subcommand group
func (f *Feature) handleModule(s *discordgo.Session, i *discordgo.InteractionCreate, group *discordgo.ApplicationCommandInteractionDataOption) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	guildID := common.InteractionGuildID(i)
	if guildID == 0 {
		common.RespondWithError(s, i, "Settings only work inside a server.")
		return
	}

	if len(group.Options) == 0 {
		return
	}
	sub := group.Options[0]

	var err error
	var msg string
	switch group.Name {
	case "welcome":
		if sub.Name == "set" {
			channelID := channelOption(s, sub, "channel")
			message := stringOption(sub, "message")
			if channelID == 0 {
				common.RespondWithError(s, i, "A channel is required.")
				return
			}
			err = f.guildService.SetWelcome(ctx, guildID, channelID, message)
			msg = fmt.Sprintf("Welcome messages will be posted in <#%d>.", channelID)
		} else {
			var wasEnabled bool
			wasEnabled, err = f.guildService.DisableWelcome(ctx, guildID)
			msg = disableMessage("Welcome messages", wasEnabled)
		}
	case "ticket":
		if sub.Name == "set" {
			categoryID := channelOption(s, sub, "category")
			roleID := roleOption(s, sub, "role")
			if categoryID == 0 || roleID == 0 {
				common.RespondWithError(s, i, "A category and a support role are required.")
				return
			}
			err = f.guildService.SetTicket(ctx, guildID, categoryID, roleID)
			msg = "Ticket system configured."
		} else {
			var wasEnabled bool
			wasEnabled, err = f.guildService.DisableTicket(ctx, guildID)
			msg = disableMessage("The ticket system", wasEnabled)
		}
	case "suggestions":
		if sub.Name == "set" {
			channelID := channelOption(s, sub, "channel")
			if channelID == 0 {
				common.RespondWithError(s, i, "A channel is required.")
				return
			}
			err = f.guildService.SetSuggestionChannel(ctx, guildID, channelID)
			msg = fmt.Sprintf("Suggestions will be collected in <#%d>.", channelID)
		} else {
			var wasEnabled bool
			wasEnabled, err = f.guildService.DisableSuggestions(ctx, guildID)
			msg = disableMessage("Suggestions", wasEnabled)
		}
	case "chatbot":
		if sub.Name == "set" {
			channelID := channelOption(s, sub, "channel")
			if channelID == 0 {
				common.RespondWithError(s, i, "A channel is required.")
				return
			}
			err = f.guildService.SetChatbotChannel(ctx, guildID, channelID)
			msg = fmt.Sprintf("The chatbot will reply in <#%d>.", channelID)
		} else {
			var wasEnabled bool
			wasEnabled, err = f.guildService.DisableChatbot(ctx, guildID)
			msg = disableMessage("The chatbot", wasEnabled)
		}
	}

	if err != nil {
		log.Errorf("Error updating %s settings for guild %d: %v", group.Name, guildID, err)
		common.RespondWithError(s, i, common.UserFacingError(err))
		return
	}

	if err := common.RespondWithContent(s, i, "⚙️ "+msg, true); err != nil {
		log.Errorf("Error responding to settings %s: %v", group.Name, err)
	}
}

func disableMessage(module string, wasEnabled bool) string {
	if wasEnabled {
		return module + " disabled."
	}
	return module + " was already disabled."
}

func channelOption(s *discordgo.Session, sub *discordgo.ApplicationCommandInteractionDataOption, name string) int64 {
	for _, opt := range sub.Options {
		if opt.Name == name {
			if ch := opt.ChannelValue(s); ch != nil {
				return common.ParseSnowflake(ch.ID)
			}
		}
	}
	return 0
}

func roleOption(s *discordgo.Session, sub *discordgo.ApplicationCommandInteractionDataOption, name string) int64 {
	for _, opt := range sub.Options {
		if opt.Name == name {
			if role := opt.RoleValue(s, ""); role != nil {
				return common.ParseSnowflake(role.ID)
			}
		}
	}
	return 0
}

func stringOption(sub *discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, opt := range sub.Options {
		if opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}

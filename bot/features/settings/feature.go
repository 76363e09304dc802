package settings

import (
	"github.com/bwmarrin/discordgo"

	"popcat/service"
)

// Feature handles per-guild module configuration: welcome messages, the
// ticket system, suggestion routing and the chatbot channel.
type Feature struct {
	guildService service.GuildService
}

func New(guildService service.GuildService) *Feature {
	return &Feature{guildService: guildService}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "show":
		f.handleShow(s, i)
	case "welcome", "ticket", "suggestions", "chatbot":
		f.handleModule(s, i, options[0])
	}
}

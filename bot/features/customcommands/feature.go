package customcommands

import (
	"github.com/bwmarrin/discordgo"

	"popcat/service"
)

// Feature handles per-guild trigger/response pairs. Triggers fire from the
// bot's message handler; this feature only manages them.
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
	case "add":
		f.handleAdd(s, i, options[0])
	case "remove":
		f.handleRemove(s, i, options[0])
	case "list":
		f.handleList(s, i)
	}
}

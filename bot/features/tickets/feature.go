package tickets

import (
	"github.com/bwmarrin/discordgo"

	"popcat/service"
)

// Feature handles support tickets: a private channel per ticket under the
// configured category, visible to the opener and the support role.
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
	case "open":
		f.handleOpen(s, i)
	case "close":
		f.handleClose(s, i)
	}
}

package afk

import (
	"github.com/bwmarrin/discordgo"

	"popcat/service"
)

// Feature handles away-from-keyboard markers. The marker is also cleared
// automatically when the user speaks again; that path lives on the bot's
// message handler.
type Feature struct {
	afkStore service.AFKStore
}

func New(afkStore service.AFKStore) *Feature {
	return &Feature{afkStore: afkStore}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "set":
		f.handleSet(s, i, options[0])
	case "clear":
		f.handleClear(s, i)
	}
}

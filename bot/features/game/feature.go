package game

import (
	"github.com/bwmarrin/discordgo"

	"popcat/geo"
	"popcat/service"
)

// Feature handles the guess-the-country game. The target's map silhouette
// is fetched and inverted so the country shape shows white on dark embeds.
type Feature struct {
	gameService     service.GameService
	geoClient       *geo.Client
	leaderboardSize int
}

func New(gameService service.GameService, geoClient *geo.Client, leaderboardSize int) *Feature {
	return &Feature{
		gameService:     gameService,
		geoClient:       geoClient,
		leaderboardSize: leaderboardSize,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "new":
		f.handleNew(s, i)
	case "guess":
		f.handleGuess(s, i, options[0])
	case "giveup":
		f.handleGiveUp(s, i)
	case "history":
		f.handleHistory(s, i)
	case "leaderboard":
		f.handleLeaderboard(s, i)
	}
}

package stocks

import (
	"github.com/bwmarrin/discordgo"

	"popcat/service"
)

// Feature handles the stock trading commands. All trades settle against the
// bank balance.
type Feature struct {
	stockService    service.StockService
	leaderboardSize int
}

func New(stockService service.StockService, leaderboardSize int) *Feature {
	return &Feature{
		stockService:    stockService,
		leaderboardSize: leaderboardSize,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "quote":
		f.handleQuote(s, i, options[0])
	case "buy":
		f.handleBuy(s, i, options[0])
	case "sell":
		f.handleSell(s, i, options[0])
	case "portfolio":
		f.handlePortfolio(s, i)
	case "leaderboard":
		f.handleLeaderboard(s, i)
	}
}

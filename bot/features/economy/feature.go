package economy

import (
	"github.com/bwmarrin/discordgo"

	"popcat/service"
)

// Feature handles the coin ledger commands: balances, cadence rewards,
// transfers, gambling and leaderboards.
type Feature struct {
	economyService  service.EconomyService
	leaderboardSize int
}

func New(economyService service.EconomyService, leaderboardSize int) *Feature {
	return &Feature{
		economyService:  economyService,
		leaderboardSize: leaderboardSize,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "open":
		f.handleOpen(s, i)
	case "balance":
		f.handleBalance(s, i)
	case "deposit":
		f.handleDeposit(s, i)
	case "withdraw":
		f.handleWithdraw(s, i)
	case "daily":
		f.handleDaily(s, i)
	case "beg":
		f.handleBeg(s, i)
	case "work":
		f.handleWork(s, i)
	case "transfer":
		f.handleTransfer(s, i)
	case "slots":
		f.handleSlots(s, i)
	case "history":
		f.handleHistory(s, i)
	case "rich":
		f.handleRich(s, i)
	}
}

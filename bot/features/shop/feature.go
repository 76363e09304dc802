package shop

import (
	"github.com/bwmarrin/discordgo"

	"popcat/service"
)

// Feature handles the item shop: browsing, buying, using items and selling
// what they produce.
type Feature struct {
	economyService service.EconomyService
}

func New(economyService service.EconomyService) *Feature {
	return &Feature{economyService: economyService}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "shop":
		f.handleShop(s, i)
	case "buy":
		f.handleBuy(s, i)
	case "use":
		f.handleUse(s, i)
	case "inventory":
		f.handleInventory(s, i)
	case "sell":
		f.handleSell(s, i)
	case "postmeme":
		f.handlePostMeme(s, i)
	}
}

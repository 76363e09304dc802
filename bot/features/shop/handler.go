package shop

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"popcat/bot/common"
	"popcat/models"
	"popcat/service"
)

func (f *Feature) handleShop(s *discordgo.Session, i *discordgo.InteractionCreate) {
	fields := make([]*discordgo.MessageEmbedField, 0, len(models.ShopItems))
	for _, item := range models.ShopItems {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%s — %s Pop Coins", item, common.FormatCoins(item.Price())),
			Value: item.Description(),
		})
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Pop Cat Shop",
		Description: "Buy items with `/buy` and put them to work with `/use`.",
		Color:       0xF5A623,
		Fields:      fields,
	}
	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Errorf("Error responding to shop command: %v", err)
	}
}

func (f *Feature) handleBuy(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	userID, err := common.InteractionUserID(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	var itemName string
	quantity := int64(1)
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "item":
			itemName = opt.StringValue()
		case "quantity":
			quantity = opt.IntValue()
		}
	}

	item, ok := models.ParseItem(itemName)
	if !ok {
		common.RespondWithError(s, i, "That's not something the shop sells.")
		return
	}

	cost, err := f.economyService.BuyItem(ctx, userID, item, quantity)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			common.RespondWithError(s, i, "That's not something the shop sells.")
			return
		}
		if errors.Is(err, models.ErrInsufficientFunds) {
			common.RespondWithError(s, i, "You don't have enough Pop Coins in your pocket for that.")
			return
		}
		log.Errorf("Error buying %dx %s for user %d: %v", quantity, item, userID, err)
		common.RespondWithError(s, i, common.UserFacingError(err))
		return
	}

	msg := fmt.Sprintf("🛒 Bought **%dx %s** for **%s Pop Coins**.", quantity, item, common.FormatCoins(cost))
	if err := common.RespondWithContent(s, i, msg, false); err != nil {
		log.Errorf("Error responding to buy command: %v", err)
	}
}

func (f *Feature) handleUse(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	userID, err := common.InteractionUserID(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	var itemName string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "item" {
			itemName = opt.StringValue()
		}
	}

	item, ok := models.ParseItem(itemName)
	if !ok {
		common.RespondWithError(s, i, "Unknown item.")
		return
	}

	outcome, remaining, err := f.economyService.UseItem(ctx, userID, item)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrOnCooldown):
			common.RespondWithError(s, i, fmt.Sprintf("Your %s needs a rest. Try again in **%s**.", item, common.FormatRemaining(remaining)))
		case errors.Is(err, models.ErrInsufficientInventory):
			common.RespondWithError(s, i, fmt.Sprintf("You don't own a %s. Buy one in the shop first.", item))
		case errors.Is(err, models.ErrValidation):
			common.RespondWithError(s, i, "That item can't be used.")
		default:
			log.Errorf("Error using %s for user %d: %v", item, userID, err)
			common.RespondWithError(s, i, common.UserFacingError(err))
		}
		return
	}

	if err := common.RespondWithContent(s, i, useMessage(outcome), false); err != nil {
		log.Errorf("Error responding to use command: %v", err)
	}
}

// useMessage picks the flavor line for an item-use outcome
func useMessage(outcome *service.UseOutcome) string {
	switch outcome.Item {
	case models.ItemCat:
		return fmt.Sprintf("🐱 Your cat blessed you with **%s Pop Coins**!", common.FormatCoins(outcome.Coins))
	case models.ItemCar:
		return fmt.Sprintf("🚗 You went drivin' and earned **%s Pop Coins**.", common.FormatCoins(outcome.Coins))
	case models.ItemMinecraft:
		return fmt.Sprintf("⛏️ You mined some diamonds and sold them for **%s Pop Coins**.", common.FormatCoins(outcome.Coins))
	case models.ItemMansion:
		return fmt.Sprintf("🏰 Your tenants paid **%s Pop Coins** in rent.", common.FormatCoins(outcome.Coins))
	case models.ItemFishingRod:
		if outcome.Fish == 0 {
			return "🎣 You fell in the water and caught nothing. Better luck next time!"
		}
		return fmt.Sprintf("🎣 You caught **%d fish**! Sell them with `/sell`.", outcome.Fish)
	}
	return fmt.Sprintf("You used your %s.", outcome.Item)
}

func (f *Feature) handleInventory(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	userID, err := common.InteractionUserID(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	entries, err := f.economyService.Inventory(ctx, userID)
	if err != nil {
		log.Errorf("Error fetching inventory for user %d: %v", userID, err)
		common.RespondWithError(s, i, common.UserFacingError(err))
		return
	}

	if len(entries) == 0 {
		common.RespondWithError(s, i, "Your inventory is empty. Visit the `/shop`!")
		return
	}

	var lines []string
	for _, entry := range entries {
		lines = append(lines, fmt.Sprintf("**%s** × %d", entry.Item, entry.Quantity))
	}

	displayName := common.GetDisplayName(s, i.GuildID, common.InteractionUser(i).ID)
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s's Inventory", displayName),
		Description: strings.Join(lines, "\n"),
		Color:       0xF5A623,
	}
	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Errorf("Error responding to inventory command: %v", err)
	}
}

func (f *Feature) handleSell(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	userID, err := common.InteractionUserID(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	var goods string
	quantity := int64(1)
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "goods":
			goods = opt.StringValue()
		case "quantity":
			quantity = opt.IntValue()
		}
	}

	var payout int64
	switch goods {
	case "fish":
		payout, err = f.economyService.SellFish(ctx, userID, quantity)
	case "karma":
		payout, err = f.economyService.SellKarma(ctx, userID, quantity)
	default:
		common.RespondWithError(s, i, "You can sell `fish` or `karma`.")
		return
	}
	if err != nil {
		if errors.Is(err, models.ErrInsufficientInventory) {
			common.RespondWithError(s, i, fmt.Sprintf("You don't have that much %s to sell.", goods))
			return
		}
		if errors.Is(err, models.ErrValidation) {
			common.RespondWithError(s, i, "Quantity must be positive.")
			return
		}
		log.Errorf("Error selling %d %s for user %d: %v", quantity, goods, userID, err)
		common.RespondWithError(s, i, common.UserFacingError(err))
		return
	}

	msg := fmt.Sprintf("💰 Sold **%d %s** for **%s Pop Coins**.", quantity, goods, common.FormatCoins(payout))
	if err := common.RespondWithContent(s, i, msg, false); err != nil {
		log.Errorf("Error responding to sell command: %v", err)
	}
}

func (f *Feature) handlePostMeme(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	userID, err := common.InteractionUserID(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	outcome, remaining, err := f.economyService.PostMeme(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrOnCooldown):
			common.RespondWithError(s, i, fmt.Sprintf("The internet needs a break from your memes. Try again in **%s**.", common.FormatRemaining(remaining)))
		case errors.Is(err, models.ErrInsufficientInventory):
			common.RespondWithError(s, i, "You need a Laptop to post memes. Buy one in the shop.")
		default:
			log.Errorf("Error posting meme for user %d: %v", userID, err)
			common.RespondWithError(s, i, common.UserFacingError(err))
		}
		return
	}

	msg := fmt.Sprintf("🤣 Your meme earned **%s karma**!", common.FormatCoins(outcome.Karma))
	if outcome.LaptopBroke {
		msg += "\n💥 ...and then your laptop broke. You'll need a new one."
	}
	if err := common.RespondWithContent(s, i, msg, false); err != nil {
		log.Errorf("Error responding to postmeme command: %v", err)
	}
}

package stocks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"popcat/bot/common"
	"popcat/imagegen"
	"popcat/models"
	"popcat/service"
)

func (f *Feature) handleQuote(s *discordgo.Session, i *discordgo.InteractionCreate, opt *discordgo.ApplicationCommandInteractionDataOption) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	// The quote API can be slow, so defer first.
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring quote command: %v", err)
		return
	}

	symbol := subOptionString(opt, "symbol")
	quote, err := f.stockService.Quote(ctx, symbol)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			common.FollowUpWithError(s, i, fmt.Sprintf("No such symbol: **%s**.", strings.ToUpper(symbol)))
			return
		}
		log.Errorf("Error quoting %s: %v", symbol, err)
		common.FollowUpWithError(s, i, common.UserFacingError(err))
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("📈 %s", quote.Symbol),
		Color: 0x2ECC71,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Current", Value: fmt.Sprintf("%.2f", quote.Current), Inline: true},
			{Name: "Open", Value: fmt.Sprintf("%.2f", quote.Open), Inline: true},
			{Name: "High", Value: fmt.Sprintf("%.2f", quote.High), Inline: true},
			{Name: "Low", Value: fmt.Sprintf("%.2f", quote.Low), Inline: true},
		},
	}
	if _, err := common.FollowUpWithEmbed(s, i, embed, nil); err != nil {
		log.Errorf("Error responding to quote command: %v", err)
	}
}

func (f *Feature) handleBuy(s *discordgo.Session, i *discordgo.InteractionCreate, opt *discordgo.ApplicationCommandInteractionDataOption) {
	f.handleTrade(s, i, opt, f.stockService.Buy,
		func(r *service.TradeResult) string {
			return fmt.Sprintf("📈 Invested **%s Pop Coins** in **%s** — **%s shares** at %.2f.",
				common.FormatCoins(r.Amount), r.Symbol, common.FormatShares(r.Shares), r.Price)
		})
}

func (f *Feature) handleSell(s *discordgo.Session, i *discordgo.InteractionCreate, opt *discordgo.ApplicationCommandInteractionDataOption) {
	f.handleTrade(s, i, opt, f.stockService.Sell,
		func(r *service.TradeResult) string {
			return fmt.Sprintf("📉 Sold **%s shares** of **%s** at %.2f for **%s Pop Coins**.",
				common.FormatShares(r.Shares), r.Symbol, r.Price, common.FormatCoins(r.Amount))
		})
}

type tradeFunc func(ctx context.Context, userID int64, symbol string, amount int64) (*service.TradeResult, error)

func (f *Feature) handleTrade(s *discordgo.Session, i *discordgo.InteractionCreate, opt *discordgo.ApplicationCommandInteractionDataOption, trade tradeFunc, success func(*service.TradeResult) string) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring trade command: %v", err)
		return
	}

	userID, err := common.InteractionUserID(i)
	if err != nil {
		common.FollowUpWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	symbol := subOptionString(opt, "symbol")
	amount := subOptionInt(opt, "amount")

	result, err := trade(ctx, userID, symbol, amount)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			common.FollowUpWithError(s, i, "Symbol and a positive amount are required.")
		case errors.Is(err, models.ErrNotFound):
			common.FollowUpWithError(s, i, fmt.Sprintf("No such symbol: **%s**.", strings.ToUpper(symbol)))
		case errors.Is(err, models.ErrInsufficientFunds):
			common.FollowUpWithError(s, i, "You don't have that many Pop Coins in your bank.")
		case errors.Is(err, models.ErrInsufficientInventory):
			common.FollowUpWithError(s, i, "You don't hold that many shares.")
		default:
			log.Errorf("Error trading %s for user %d: %v", symbol, userID, err)
			common.FollowUpWithError(s, i, common.UserFacingError(err))
		}
		return
	}

	common.FollowUpWithContent(s, i, success(result), false)
}

func (f *Feature) handlePortfolio(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	userID, err := common.InteractionUserID(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	portfolio, err := f.stockService.Portfolio(ctx, userID)
	if err != nil {
		log.Errorf("Error fetching portfolio for user %d: %v", userID, err)
		common.RespondWithError(s, i, common.UserFacingError(err))
		return
	}

	symbols := make([]string, 0, len(portfolio))
	for symbol, holding := range portfolio {
		if holding.Shares > 0 {
			symbols = append(symbols, symbol)
		}
	}
	if len(symbols) == 0 {
		common.RespondWithError(s, i, "You don't hold any stocks. Invest with `/stocks buy`.")
		return
	}
	sort.Strings(symbols)

	var lines []string
	for _, symbol := range symbols {
		holding := portfolio[symbol]
		lines = append(lines, fmt.Sprintf("**%s** — %s shares (cost basis %s Pop Coins)",
			symbol, common.FormatShares(holding.Shares), common.FormatCoins(int64(holding.CostBasis))))
	}

	displayName := common.GetDisplayName(s, i.GuildID, common.InteractionUser(i).ID)
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s's Portfolio", displayName),
		Description: strings.Join(lines, "\n"),
		Color:       0x2ECC71,
	}
	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Errorf("Error responding to portfolio command: %v", err)
	}
}

func (f *Feature) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring stocks leaderboard: %v", err)
		return
	}

	investors, err := f.stockService.TopInvestors(ctx, f.leaderboardSize)
	if err != nil {
		log.Errorf("Error fetching investor leaderboard: %v", err)
		common.FollowUpWithError(s, i, common.UserFacingError(err))
		return
	}

	if len(investors) == 0 {
		common.FollowUpWithError(s, i, "Nobody is holding any stocks yet.")
		return
	}

	rows := make([]imagegen.CardRow, 0, len(investors))
	for rank, investor := range investors {
		rows = append(rows, imagegen.CardRow{
			Rank:  rank + 1,
			Label: common.GetDisplayNameInt64(s, i.GuildID, investor.UserID),
			Value: common.FormatCoins(int64(investor.Invested)),
		})
	}

	png, err := imagegen.LeaderboardCard("Top Investors", rows)
	if err != nil {
		log.Errorf("Error rendering investor leaderboard card: %v", err)
		common.FollowUpWithError(s, i, "Unable to render the leaderboard. Please try again.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "Top Investors",
		Color: 0x2ECC71,
		Image: &discordgo.MessageEmbedImage{URL: "attachment://leaderboard.png"},
	}
	files := []*discordgo.File{{Name: "leaderboard.png", ContentType: "image/png", Reader: bytes.NewReader(png)}}
	if _, err := common.FollowUpWithEmbed(s, i, embed, files); err != nil {
		log.Errorf("Error responding to stocks leaderboard: %v", err)
	}
}

// subOptionString pulls a string option out of a subcommand
func subOptionString(opt *discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, sub := range opt.Options {
		if sub.Name == name {
			return sub.StringValue()
		}
	}
	return ""
}

// subOptionInt pulls an integer option out of a subcommand
func subOptionInt(opt *discordgo.ApplicationCommandInteractionDataOption, name string) int64 {
	for _, sub := range opt.Options {
		if sub.Name == name {
			return sub.IntValue()
		}
	}
	return 0
}

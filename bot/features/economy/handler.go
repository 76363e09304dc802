package economy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"popcat/bot/common"
	"popcat/imagegen"
	"popcat/models"
)

func (f *Feature) handleOpen(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	userID, err := common.InteractionUserID(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	account, created, err := f.economyService.OpenAccount(ctx, userID)
	if err != nil {
		log.Errorf("Error opening account for user %d: %v", userID, err)
		common.RespondWithError(s, i, common.UserFacingError(err))
		return
	}

	if !created {
		common.RespondWithError(s, i, "You already have an account. Check it with `/balance`.")
		return
	}

	msg := fmt.Sprintf("🎉 Account opened with **%s Pop Coins** in your pocket!", common.FormatCoins(account.Pocket))
	if err := common.RespondWithContent(s, i, msg, false); err != nil {
		log.Errorf("Error responding to open command: %v", err)
	}
}

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	userID, err := common.InteractionUserID(i)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", common.InteractionUser(i).ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	account, err := f.economyService.Balance(ctx, userID)
	if err != nil {
		log.Errorf("Error getting balance for user %d: %v", userID, err)
		common.RespondWithError(s, i, common.UserFacingError(err))
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, common.InteractionUser(i).ID)
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s's Balance", displayName),
		Color: 0xF5A623,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Pocket", Value: fmt.Sprintf("**%s** Pop Coins", common.FormatCoins(account.Pocket)), Inline: true},
			{Name: "Bank", Value: fmt.Sprintf("**%s** Pop Coins", common.FormatCoins(account.Bank)), Inline: true},
			{Name: "Karma", Value: common.FormatCoins(account.Karma), Inline: true},
			{Name: "Net Worth", Value: fmt.Sprintf("**%s** Pop Coins", common.FormatCoins(account.NetWorth()))},
		},
	}
	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Errorf("Error responding to balance command: %v", err)
	}
}

func (f *Feature) handleDeposit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleBankMove(s, i, "Deposited", f.economyService.Deposit)
}

func (f *Feature) handleWithdraw(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleBankMove(s, i, "Withdrew", f.economyService.Withdraw)
}

// handleBankMove covers deposit and withdraw, which differ only in the
// direction of the pocket/bank move
func (f *Feature) handleBankMove(s *discordgo.Session, i *discordgo.InteractionCreate, verb string, move func(ctx context.Context, userID, amount int64) error) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	userID, err := common.InteractionUserID(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	var amount int64
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "amount" {
			amount = opt.IntValue()
		}
	}
	if amount <= 0 {
		common.RespondWithError(s, i, "Amount must be positive.")
		return
	}

	if err := move(ctx, userID, amount); err != nil {
		if errors.Is(err, models.ErrInsufficientFunds) {
			common.RespondWithError(s, i, "You don't have that many Pop Coins there.")
			return
		}
		log.Errorf("Error moving %d coins for user %d: %v", amount, userID, err)
		common.RespondWithError(s, i, common.UserFacingError(err))
		return
	}

	msg := fmt.Sprintf("🏦 %s **%s Pop Coins**.", verb, common.FormatCoins(amount))
	if err := common.RespondWithContent(s, i, msg, false); err != nil {
		log.Errorf("Error responding to %s command: %v", i.ApplicationCommandData().Name, err)
	}
}

// handleGatedEarn covers beg and work, which differ only in payout range,
// cooldown and flavor text
func (f *Feature) handleGatedEarn(s *discordgo.Session, i *discordgo.InteractionCreate, name string, earn func(ctx context.Context, userID int64) (int64, models.Remaining, error), flavor func(amount int64) string) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	userID, err := common.InteractionUserID(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	amount, remaining, err := earn(ctx, userID)
	if errors.Is(err, models.ErrOnCooldown) {
		common.RespondWithError(s, i, fmt.Sprintf("Slow down! You can %s again in **%s**.", name, common.FormatRemaining(remaining)))
		return
	}
	if err != nil {
		log.Errorf("Error handling %s for user %d: %v", name, userID, err)
		common.RespondWithError(s, i, common.UserFacingError(err))
		return
	}

	if err := common.RespondWithContent(s, i, flavor(amount), false); err != nil {
		log.Errorf("Error responding to %s command: %v", name, err)
	}
}

func (f *Feature) handleDaily(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	userID, err := common.InteractionUserID(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	reward, remaining, err := f.economyService.Daily(ctx, userID)
	if errors.Is(err, models.ErrOnCooldown) {
		common.RespondWithError(s, i, fmt.Sprintf("You already claimed today's reward. Come back in **%s**.", common.FormatRemaining(remaining)))
		return
	}
	if err != nil {
		log.Errorf("Error claiming daily for user %d: %v", userID, err)
		common.RespondWithError(s, i, common.UserFacingError(err))
		return
	}

	msg := fmt.Sprintf("🎁 You claimed your daily **%s Pop Coins**!", common.FormatCoins(reward))
	if err := common.RespondWithContent(s, i, msg, false); err != nil {
		log.Errorf("Error responding to daily command: %v", err)
	}
}

func (f *Feature) handleBeg(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleGatedEarn(s, i, "beg", f.economyService.Beg,
		func(amount int64) string {
			return fmt.Sprintf("🥺 A kind stranger gave you **%s Pop Coins**.", common.FormatCoins(amount))
		})
}

func (f *Feature) handleWork(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleGatedEarn(s, i, "work", f.economyService.Work,
		func(amount int64) string {
			return fmt.Sprintf("💼 You worked a shift and earned **%s Pop Coins**.", common.FormatCoins(amount))
		})
}

func (f *Feature) handleTransfer(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	var amount int64
	var recipientUser *discordgo.User
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "amount":
			amount = opt.IntValue()
		case "user":
			recipientUser = opt.UserValue(s)
		}
	}

	if amount <= 0 {
		common.RespondWithError(s, i, "Amount must be positive.")
		return
	}
	if recipientUser == nil {
		common.RespondWithError(s, i, "Invalid recipient user.")
		return
	}

	fromID, err := common.InteractionUserID(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	toID, err := strconv.ParseInt(recipientUser.ID, 10, 64)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if err := f.economyService.Transfer(ctx, fromID, toID, amount); err != nil {
		if errors.Is(err, models.ErrValidation) {
			common.RespondWithError(s, i, "You can't transfer coins to yourself.")
			return
		}
		if errors.Is(err, models.ErrInsufficientFunds) {
			common.RespondWithError(s, i, "You don't have that many Pop Coins in your pocket.")
			return
		}
		log.Errorf("Error transferring %d coins from %d to %d: %v", amount, fromID, toID, err)
		common.RespondWithError(s, i, common.UserFacingError(err))
		return
	}

	msg := fmt.Sprintf("✅ Sent **%s Pop Coins** to <@%s>.", common.FormatCoins(amount), recipientUser.ID)
	if err := common.RespondWithContent(s, i, msg, false); err != nil {
		log.Errorf("Error responding to transfer command: %v", err)
	}
}

func (f *Feature) handleSlots(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	userID, err := common.InteractionUserID(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	var bet int64
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "bet" {
			bet = opt.IntValue()
		}
	}
	if bet <= 0 {
		common.RespondWithError(s, i, "Bet must be positive.")
		return
	}

	result, err := f.economyService.Slots(ctx, userID, bet)
	if err != nil {
		if errors.Is(err, models.ErrInsufficientFunds) {
			common.RespondWithError(s, i, "You don't have that many Pop Coins in your pocket.")
			return
		}
		log.Errorf("Error spinning slots for user %d: %v", userID, err)
		common.RespondWithError(s, i, common.UserFacingError(err))
		return
	}

	reels := strings.Join(result.Reels[:], " | ")
	var outcome string
	if result.Won {
		outcome = fmt.Sprintf("🎉 **Jackpot!** You won **%s Pop Coins**.", common.FormatCoins(result.Payout))
	} else {
		outcome = fmt.Sprintf("😔 No match. You lost **%s Pop Coins**.", common.FormatCoins(bet))
	}
	msg := fmt.Sprintf("🎰 %s 🎰\n%s", reels, outcome)
	if err := common.RespondWithContent(s, i, msg, false); err != nil {
		log.Errorf("Error responding to slots command: %v", err)
	}
}

func (f *Feature) handleHistory(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	userID, err := common.InteractionUserID(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	entries, err := f.economyService.History(ctx, userID, f.leaderboardSize)
	if err != nil {
		log.Errorf("Error fetching history for user %d: %v", userID, err)
		common.RespondWithError(s, i, common.UserFacingError(err))
		return
	}

	if len(entries) == 0 {
		common.RespondWithError(s, i, "No transactions yet.")
		return
	}

	var lines []string
	for _, entry := range entries {
		sign := "+"
		if entry.ChangeAmount < 0 {
			sign = ""
		}
		lines = append(lines, fmt.Sprintf("%s `%s%s` — pocket %s, bank %s",
			common.FormatDiscordTimestamp(entry.CreatedAt, "R"),
			sign, common.FormatCoins(entry.ChangeAmount),
			common.FormatCoins(entry.PocketAfter),
			common.FormatCoins(entry.BankAfter)))
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Recent Transactions",
		Description: strings.Join(lines, "\n"),
		Color:       0xF5A623,
	}
	if err := common.RespondWithEmbed(s, i, embed, true); err != nil {
		log.Errorf("Error responding to history command: %v", err)
	}
}

func (f *Feature) handleRich(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	// Rendering the card takes a moment, so defer first.
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring rich command: %v", err)
		return
	}

	board := "pocket"
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "board" {
			board = opt.StringValue()
		}
	}

	var accounts []*models.Account
	var err error
	var title string
	switch board {
	case "bank":
		title = "Richest Players — Bank"
		accounts, err = f.economyService.RichestByBank(ctx, f.leaderboardSize)
	default:
		title = "Richest Players — Pocket"
		accounts, err = f.economyService.RichestByPocket(ctx, f.leaderboardSize)
	}
	if err != nil {
		log.Errorf("Error fetching %s leaderboard: %v", board, err)
		common.FollowUpWithError(s, i, common.UserFacingError(err))
		return
	}

	if len(accounts) == 0 {
		common.FollowUpWithError(s, i, "Nobody has any Pop Coins yet.")
		return
	}

	rows := make([]imagegen.CardRow, 0, len(accounts))
	for rank, account := range accounts {
		value := account.Pocket
		if board == "bank" {
			value = account.Bank
		}
		rows = append(rows, imagegen.CardRow{
			Rank:  rank + 1,
			Label: common.GetDisplayNameInt64(s, i.GuildID, account.UserID),
			Value: common.FormatCoins(value),
		})
	}

	png, err := imagegen.LeaderboardCard(title, rows)
	if err != nil {
		log.Errorf("Error rendering leaderboard card: %v", err)
		common.FollowUpWithError(s, i, "Unable to render the leaderboard. Please try again.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: title,
		Color: 0xF5A623,
		Image: &discordgo.MessageEmbedImage{URL: "attachment://leaderboard.png"},
	}
	files := []*discordgo.File{{Name: "leaderboard.png", ContentType: "image/png", Reader: bytes.NewReader(png)}}
	if _, err := common.FollowUpWithEmbed(s, i, embed, files); err != nil {
		log.Errorf("Error responding to rich command: %v", err)
	}
}

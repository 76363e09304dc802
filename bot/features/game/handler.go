package game

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"popcat/bot/common"
	"popcat/imagegen"
	"popcat/models"
)

func (f *Feature) handleNew(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	// Fetching and inverting the silhouette takes a moment.
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring game start: %v", err)
		return
	}

	userID, err := common.InteractionUserID(i)
	if err != nil {
		common.FollowUpWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	session, err := f.gameService.Start(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrGameActive) {
			common.FollowUpWithError(s, i, "You already have a game running. Guess with `/country guess` or `/country giveup`.")
			return
		}
		log.Errorf("Error starting game for user %d: %v", userID, err)
		common.FollowUpWithError(s, i, common.UserFacingError(err))
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Guess the Country!",
		Description: "Which country is this? Answer with `/country guess`.",
		Color:       0x3498DB,
	}

	files := f.silhouetteAttachment(session.Shortcode, embed)
	if _, err := common.FollowUpWithEmbed(s, i, embed, files); err != nil {
		log.Errorf("Error responding to game start: %v", err)
	}
}

// silhouetteAttachment fetches and inverts the target's map silhouette.
// A fetch failure downgrades to a text-only round rather than killing it.
func (f *Feature) silhouetteAttachment(shortcode string, embed *discordgo.MessageEmbed) []*discordgo.File {
	ctx, cancel := common.CommandContext()
	defer cancel()

	raw, err := f.geoClient.FetchSilhouette(ctx, shortcode)
	if err != nil {
		log.Warnf("Silhouette unavailable for %q: %v", shortcode, err)
		return nil
	}

	inverted, err := imagegen.InvertSilhouette(raw)
	if err != nil {
		log.Warnf("Silhouette invert failed for %q: %v", shortcode, err)
		return nil
	}

	embed.Image = &discordgo.MessageEmbedImage{URL: "attachment://country.png"}
	return []*discordgo.File{{Name: "country.png", ContentType: "image/png", Reader: bytes.NewReader(inverted)}}
}

func (f *Feature) handleGuess(s *discordgo.Session, i *discordgo.InteractionCreate, opt *discordgo.ApplicationCommandInteractionDataOption) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	userID, err := common.InteractionUserID(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	var country string
	for _, sub := range opt.Options {
		if sub.Name == "country" {
			country = sub.StringValue()
		}
	}

	result, err := f.gameService.Guess(ctx, userID, country)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNoActiveGame):
			common.RespondWithError(s, i, "You don't have a game running. Start one with `/country new`.")
		case errors.Is(err, models.ErrValidation):
			common.RespondWithError(s, i, fmt.Sprintf("**%s** isn't a country I know. Check the spelling.", country))
		default:
			log.Errorf("Error handling guess for user %d: %v", userID, err)
			common.RespondWithError(s, i, common.UserFacingError(err))
		}
		return
	}

	if result.Correct {
		msg := fmt.Sprintf("🎉 Correct! It was **%s** — you got it in **%d** guesses.", result.Country, result.Guesses)
		if err := common.RespondWithContent(s, i, msg, false); err != nil {
			log.Errorf("Error responding to correct guess: %v", err)
		}
		return
	}

	msg := fmt.Sprintf("❌ Not **%s**. You're about **%s** away. That's guess #%d.",
		country, common.FormatDistance(result.DistanceKM), result.Guesses)
	if err := common.RespondWithContent(s, i, msg, false); err != nil {
		log.Errorf("Error responding to wrong guess: %v", err)
	}
}

func (f *Feature) handleGiveUp(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	userID, err := common.InteractionUserID(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	country, err := f.gameService.GiveUp(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNoActiveGame) {
			common.RespondWithError(s, i, "You don't have a game running.")
			return
		}
		log.Errorf("Error giving up game for user %d: %v", userID, err)
		common.RespondWithError(s, i, common.UserFacingError(err))
		return
	}

	msg := fmt.Sprintf("🏳️ It was **%s**. Better luck next round!", country)
	if err := common.RespondWithContent(s, i, msg, false); err != nil {
		log.Errorf("Error responding to giveup command: %v", err)
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

	results, err := f.gameService.History(ctx, userID, f.leaderboardSize)
	if err != nil {
		log.Errorf("Error fetching game history for user %d: %v", userID, err)
		common.RespondWithError(s, i, common.UserFacingError(err))
		return
	}

	if len(results) == 0 {
		common.RespondWithError(s, i, "You haven't won any rounds yet. Start one with `/country new`.")
		return
	}

	var lines []string
	for _, result := range results {
		lines = append(lines, fmt.Sprintf("**%s** in %d guesses — %s",
			result.Country, result.Guesses, common.FormatDiscordTimestamp(result.CreatedAt, "R")))
	}

	displayName := common.GetDisplayName(s, i.GuildID, common.InteractionUser(i).ID)
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s's Wins", displayName),
		Description: strings.Join(lines, "\n"),
		Color:       0x3498DB,
	}
	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Errorf("Error responding to game history: %v", err)
	}
}

func (f *Feature) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring game leaderboard: %v", err)
		return
	}

	counts, err := f.gameService.Leaderboard(ctx, f.leaderboardSize)
	if err != nil {
		log.Errorf("Error fetching game leaderboard: %v", err)
		common.FollowUpWithError(s, i, common.UserFacingError(err))
		return
	}

	if len(counts) == 0 {
		common.FollowUpWithError(s, i, "Nobody has won a round yet.")
		return
	}

	rows := make([]imagegen.CardRow, 0, len(counts))
	for rank, count := range counts {
		rows = append(rows, imagegen.CardRow{
			Rank:  rank + 1,
			Label: common.GetDisplayNameInt64(s, i.GuildID, count.UserID),
			Value: fmt.Sprintf("%d wins", count.Wins),
		})
	}

	png, err := imagegen.LeaderboardCard("Country Guessing Champions", rows)
	if err != nil {
		log.Errorf("Error rendering game leaderboard card: %v", err)
		common.FollowUpWithError(s, i, "Unable to render the leaderboard. Please try again.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "Country Guessing Champions",
		Color: 0x3498DB,
		Image: &discordgo.MessageEmbedImage{URL: "attachment://leaderboard.png"},
	}
	files := []*discordgo.File{{Name: "leaderboard.png", ContentType: "image/png", Reader: bytes.NewReader(png)}}
	if _, err := common.FollowUpWithEmbed(s, i, embed, files); err != nil {
		log.Errorf("Error responding to game leaderboard: %v", err)
	}
}

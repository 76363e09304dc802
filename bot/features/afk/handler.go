package afk

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"popcat/bot/common"
)

func (f *Feature) handleSet(s *discordgo.Session, i *discordgo.InteractionCreate, opt *discordgo.ApplicationCommandInteractionDataOption) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	userID, err := common.InteractionUserID(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	reason := "AFK"
	for _, sub := range opt.Options {
		if sub.Name == "reason" {
			reason = sub.StringValue()
		}
	}

	if err := f.afkStore.Set(ctx, userID, reason); err != nil {
		log.Errorf("Error setting AFK for user %d: %v", userID, err)
		common.RespondWithError(s, i, common.UserFacingError(err))
		return
	}

	msg := fmt.Sprintf("💤 You're now AFK: %s", reason)
	if err := common.RespondWithContent(s, i, msg, false); err != nil {
		log.Errorf("Error responding to afk set: %v", err)
	}
}

func (f *Feature) handleClear(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := common.CommandContext()
	defer cancel()

	userID, err := common.InteractionUserID(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	existed, err := f.afkStore.Clear(ctx, userID)
	if err != nil {
		log.Errorf("Error clearing AFK for user %d: %v", userID, err)
		common.RespondWithError(s, i, common.UserFacingError(err))
		return
	}

	if !existed {
		common.RespondWithError(s, i, "You weren't AFK.")
		return
	}

	if err := common.RespondWithContent(s, i, "👋 Welcome back!", false); err != nil {
		log.Errorf("Error responding to afk clear: %v", err)
	}
}

package common

import (
	"errors"

	"popcat/models"
)

// UserFacingError maps a service error to a message safe to show the user.
// Storage and upstream failures are deliberately vague.
func UserFacingError(err error) string {
	switch {
	case errors.Is(err, models.ErrValidation):
		return "That input doesn't look right. Check the command and try again."
	case errors.Is(err, models.ErrInsufficientFunds):
		return "You don't have enough Pop Coins for that."
	case errors.Is(err, models.ErrInsufficientInventory):
		return "You don't have enough of that item."
	case errors.Is(err, models.ErrNotFound):
		return "Nothing found."
	case errors.Is(err, models.ErrOnCooldown):
		return "You're still on cooldown."
	case errors.Is(err, models.ErrGameActive):
		return "You already have a game running. Finish it or give up first."
	case errors.Is(err, models.ErrNoActiveGame):
		return "You don't have a game running. Start one first."
	case errors.Is(err, models.ErrUpstreamUnavailable):
		return "The market data service isn't responding. Try again in a bit."
	default:
		return "Something went wrong. Please try again."
	}
}

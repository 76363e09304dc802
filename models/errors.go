package models

import "errors"

// Sentinel errors shared across services and repositories. Handlers map
// these to user-facing messages at the interaction boundary; everything a
// service returns wraps one of them or is a storage/upstream failure.
var (
	// ErrValidation indicates bad user input; nothing was read or written.
	ErrValidation = errors.New("invalid input")

	// ErrInsufficientFunds indicates a guarded balance decrement failed its
	// precondition. State is unchanged.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientInventory indicates a guarded inventory decrement
	// failed its precondition. State is unchanged.
	ErrInsufficientInventory = errors.New("insufficient inventory")

	// ErrNotFound covers absent configuration, custom commands, and other
	// lookups that are normal control flow rather than failures.
	ErrNotFound = errors.New("not found")

	// ErrOnCooldown indicates a cadence or cooldown gate has not elapsed.
	ErrOnCooldown = errors.New("on cooldown")

	// ErrGameActive indicates a game session already exists for the user.
	ErrGameActive = errors.New("game already active")

	// ErrNoActiveGame indicates no game session exists for the user.
	ErrNoActiveGame = errors.New("no active game")

	// ErrStorageUnavailable indicates the backing store could not be
	// reached. Never folded into ErrInsufficientFunds.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrUpstreamUnavailable indicates a third-party API call failed.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

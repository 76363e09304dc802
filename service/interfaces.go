package service

import (
	"context"
	"time"

	"popcat/events"
	"popcat/models"
)

// AccountRepository defines the interface for economy account data access.
// Every decrement is guarded: the repository applies it only when the stored
// balance covers the amount, and reports failure otherwise, so balances can
// never go negative however many commands race.
type AccountRepository interface {
	// GetByUserID retrieves an account, or nil if the user has none yet
	GetByUserID(ctx context.Context, userID int64) (*models.Account, error)

	// CreateIfAbsent inserts a fresh account with the initial pocket balance,
	// reporting whether this call created it
	CreateIfAbsent(ctx context.Context, userID int64, initialPocket int64) (bool, error)

	// AddPocket adds to a user's pocket balance atomically
	AddPocket(ctx context.Context, userID int64, amount int64) error

	// DeductPocket deducts from a user's pocket, failing with
	// ErrInsufficientFunds if it does not cover the amount
	DeductPocket(ctx context.Context, userID int64, amount int64) error

	// AddBank adds to a user's bank balance atomically
	AddBank(ctx context.Context, userID int64, amount int64) error

	// DeductBank deducts from a user's bank, failing with
	// ErrInsufficientFunds if it does not cover the amount
	DeductBank(ctx context.Context, userID int64, amount int64) error

	// Deposit moves amount from pocket to bank as a single atomic update
	Deposit(ctx context.Context, userID int64, amount int64) error

	// Withdraw moves amount from bank to pocket as a single atomic update
	Withdraw(ctx context.Context, userID int64, amount int64) error

	// AddKarma adds to a user's karma atomically
	AddKarma(ctx context.Context, userID int64, amount int64) error

	// SellKarma trades units of karma for payout coins as a single atomic
	// update, failing if the user holds fewer units
	SellKarma(ctx context.Context, userID int64, units int64, payout int64) error

	// ClaimWindowed pays a cadence reward if the named claim timestamp
	// predates windowStart, advancing it; reports whether the claim applied
	ClaimWindowed(ctx context.Context, userID int64, column models.ClaimColumn, amount int64, windowStart int64) (bool, error)

	// TopByPocket returns the richest accounts by pocket balance
	TopByPocket(ctx context.Context, limit int) ([]*models.Account, error)

	// TopByBank returns the richest accounts by bank balance
	TopByBank(ctx context.Context, limit int) ([]*models.Account, error)
}

// InventoryRepository defines the interface for item stack data access.
type InventoryRepository interface {
	// Quantity returns how many of item the user holds, zero if none
	Quantity(ctx context.Context, userID int64, item models.Item) (int64, error)

	// List returns the user's non-empty item stacks
	List(ctx context.Context, userID int64) ([]*models.InventoryEntry, error)

	// Add grants quantity of item, creating the stack on first grant
	Add(ctx context.Context, userID int64, item models.Item, quantity int64) error

	// Deduct removes quantity of item, failing with
	// ErrInsufficientInventory if the stack does not cover it
	Deduct(ctx context.Context, userID int64, item models.Item, quantity int64) error

	// TopByItem returns the users holding the most of item
	TopByItem(ctx context.Context, item models.Item, limit int) ([]*models.InventoryEntry, error)
}

// StockRepository defines the interface for the append-only trade log.
type StockRepository interface {
	// Append records one buy or sell, filling in ID and CreatedAt
	Append(ctx context.Context, txn *models.StockTransaction) error

	// ListByUser returns the user's full trade log in insertion order
	ListByUser(ctx context.Context, userID int64) ([]*models.StockTransaction, error)

	// NetShares folds the log into the user's current position for a symbol
	NetShares(ctx context.Context, userID int64, symbol string) (float64, error)

	// TopInvestors ranks users by net coins committed to positions
	TopInvestors(ctx context.Context, limit int) ([]*models.InvestedValue, error)
}

// BalanceEntryRepository defines the interface for the ledger audit trail.
type BalanceEntryRepository interface {
	// Record appends one audit entry, filling in ID and CreatedAt
	Record(ctx context.Context, entry *models.BalanceEntry) error

	// ListByUser returns the user's most recent entries, newest first
	ListByUser(ctx context.Context, userID int64, limit int) ([]*models.BalanceEntry, error)
}

// GuildConfigRepository defines the interface for per-guild configuration.
type GuildConfigRepository interface {
	// GetOrCreate returns a guild's config, inserting an all-disabled row on
	// first touch
	GetOrCreate(ctx context.Context, guildID int64) (*models.GuildConfig, error)

	// Update overwrites a guild's config
	Update(ctx context.Context, config *models.GuildConfig) error
}

// CustomCommandRepository defines the interface for guild trigger/response
// pairs.
type CustomCommandRepository interface {
	// Create registers a pair, reporting whether the trigger was new
	Create(ctx context.Context, cmd *models.CustomCommand) (bool, error)

	// Get returns the command for a trigger, or nil if the guild has none
	Get(ctx context.Context, guildID int64, trigger string) (*models.CustomCommand, error)

	// Delete removes a trigger, reporting whether it existed
	Delete(ctx context.Context, guildID int64, trigger string) (bool, error)

	// List returns all of a guild's commands ordered by trigger
	List(ctx context.Context, guildID int64) ([]*models.CustomCommand, error)
}

// WarningRepository defines the interface for moderation warnings.
type WarningRepository interface {
	// Add records a warning, filling in ID and CreatedAt
	Add(ctx context.Context, warning *models.Warning) error

	// ListByUser returns a user's warnings in creation order
	ListByUser(ctx context.Context, guildID, userID int64) ([]*models.Warning, error)

	// RemoveByPosition deletes the Nth warning in creation order (1-based),
	// reporting whether one existed at that position
	RemoveByPosition(ctx context.Context, guildID, userID int64, position int) (bool, error)
}

// GameResultRepository defines the interface for completed game records.
type GameResultRepository interface {
	// Record stores one win, filling in ID and CreatedAt
	Record(ctx context.Context, result *models.GameResult) error

	// ListByUser returns a user's most recent wins, newest first
	ListByUser(ctx context.Context, userID int64, limit int) ([]*models.GameResult, error)

	// WinsLeaderboard ranks users by number of games won
	WinsLeaderboard(ctx context.Context, limit int) ([]*models.WinCount, error)
}

// CommandCountRepository defines the interface for command usage counters.
type CommandCountRepository interface {
	// Increment bumps the counter for one scope
	Increment(ctx context.Context, scope models.CommandScope, scopeID int64) error

	// Get returns the counter for one scope, zero if never used
	Get(ctx context.Context, scope models.CommandScope, scopeID int64) (int64, error)

	// Total sums all counters in one scope namespace
	Total(ctx context.Context, scope models.CommandScope) (int64, error)
}

// CooldownStore gates repeatable actions behind per-user timers.
type CooldownStore interface {
	// Check reports whether the user is still gated for action and how long
	// remains
	Check(ctx context.Context, userID int64, action string) (models.Remaining, bool, error)

	// Set arms the gate for action for duration d
	Set(ctx context.Context, userID int64, action string, d time.Duration) error
}

// SessionStore holds in-flight guess-the-country sessions.
type SessionStore interface {
	// Get returns the user's active session, or nil if none
	Get(ctx context.Context, userID int64) (*models.GameSession, error)

	// Put stores a fresh session for the user
	Put(ctx context.Context, userID int64, session *models.GameSession) error

	// IncrementGuess bumps the session's guess counter and returns the new
	// value
	IncrementGuess(ctx context.Context, userID int64) (int, error)

	// Delete removes the user's session
	Delete(ctx context.Context, userID int64) error

	// ActiveUsers lists the user IDs with a session in flight
	ActiveUsers(ctx context.Context) ([]int64, error)
}

// AFKStore holds away markers.
type AFKStore interface {
	// Set marks the user away with a reason
	Set(ctx context.Context, userID int64, reason string) error

	// Get returns the user's away status, or nil if not away
	Get(ctx context.Context, userID int64) (*models.AFKStatus, error)

	// Clear removes the marker, reporting whether one existed
	Clear(ctx context.Context, userID int64) (bool, error)
}

// QuoteProvider serves point-in-time stock prices.
type QuoteProvider interface {
	// Get returns the current quote for a symbol, ErrNotFound if the symbol
	// is unknown and ErrUpstreamUnavailable when the price feed is down
	Get(ctx context.Context, symbol string) (*models.Quote, error)
}

// EventPublisher accepts events for dispatch after the surrounding unit of
// work commits.
type EventPublisher interface {
	Publish(e events.Event)
}

// UnitOfWork represents one atomic ledger mutation. All repositories
// obtained from it share the same transaction, and events published through
// its bus fire only on commit.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	AccountRepository() AccountRepository
	InventoryRepository() InventoryRepository
	StockRepository() StockRepository
	BalanceEntryRepository() BalanceEntryRepository
	GuildConfigRepository() GuildConfigRepository
	CustomCommandRepository() CustomCommandRepository
	WarningRepository() WarningRepository
	GameResultRepository() GameResultRepository
	CommandCountRepository() CommandCountRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates units of work.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

package models

import (
	"time"
)

// Account represents a user's economy state. Pocket, Bank, Karma and every
// inventory quantity are never negative; mutations that would violate that
// are rejected whole by the repository layer.
type Account struct {
	UserID      int64     `db:"user_id"`
	Pocket      int64     `db:"pocket"`
	Bank        int64     `db:"bank"`
	Karma       int64     `db:"karma"`
	LastDaily   int64     `db:"last_daily"`   // unix seconds, 0 = never claimed
	LastMansion int64     `db:"last_mansion"` // unix seconds, 0 = never claimed
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// NetWorth is pocket plus bank.
func (a *Account) NetWorth() int64 {
	return a.Pocket + a.Bank
}

// ClaimColumn names a cadence-gated reward timestamp on the account.
type ClaimColumn string

const (
	ClaimDaily   ClaimColumn = "daily"
	ClaimMansion ClaimColumn = "mansion"
)

// InventoryEntry is one item stack in an account's inventory.
type InventoryEntry struct {
	UserID   int64  `db:"user_id"`
	Item     Item   `db:"item"`
	Quantity int64  `db:"quantity"`
}

// Remaining is a structured duration returned by cadence-gated operations so
// callers can format or localize it themselves.
type Remaining struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// RemainingUntil breaks down the time left until t.
func RemainingUntil(t time.Time, now time.Time) Remaining {
	d := t.Sub(now)
	if d < 0 {
		d = 0
	}
	secs := int(d.Seconds())
	return Remaining{
		Days:    secs / 86400,
		Hours:   secs % 86400 / 3600,
		Minutes: secs % 3600 / 60,
		Seconds: secs % 60,
	}
}

// IsZero reports whether no time remains.
func (r Remaining) IsZero() bool {
	return r.Days == 0 && r.Hours == 0 && r.Minutes == 0 && r.Seconds == 0
}

package models

import "time"

// GameSession is the ephemeral per-user guess-the-country state held in the
// key-value store. History starts at 1 and counts the guess the player is
// currently on.
type GameSession struct {
	CountryName string
	Shortcode   string
	Lat         float64
	Lng         float64
	History     int
}

// GameResult is the durable record written when a session resolves with a
// correct guess.
type GameResult struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Country   string    `db:"country"`
	Guesses   int       `db:"guesses"`
	CreatedAt time.Time `db:"created_at"`
}

// WinCount ranks one user by total games won.
type WinCount struct {
	UserID int64
	Wins   int64
}

// AFKStatus marks a user as away, with the reason they set.
type AFKStatus struct {
	Reason string
	Since  time.Time
}

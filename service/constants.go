package service

import "time"

// Economy amounts, in Pop Coins unless noted.
const (
	// InitialPocket is granted when a user opens their account.
	InitialPocket int64 = 2000

	// DailyReward is claimable once per UTC day.
	DailyReward int64 = 2000

	BegMin int64 = 5
	BegMax int64 = 100

	WorkMin int64 = 500
	WorkMax int64 = 2000

	CatBlessing int64 = 1000

	CarDriveMin int64 = 5000
	CarDriveMax int64 = 9000

	MinecraftMin int64 = 10
	MinecraftMax int64 = 500

	// Mansion rent is collected once per UTC week.
	MansionRentMin int64 = 10000
	MansionRentMax int64 = 30000

	FishCatchMax int64 = 5

	MemeKarmaMax int64 = 2500

	// LaptopBreakChance is the probability a meme post destroys the laptop.
	LaptopBreakChance float64 = 0.1
)

// Cooldown gate names and durations.
const (
	CooldownBeg       = "beg"
	CooldownWork      = "work"
	CooldownCat       = "cat"
	CooldownCar       = "car"
	CooldownMinecraft = "minecraft"
	CooldownFishing   = "fishing"
	CooldownPostMeme  = "postmeme"
)

const (
	BegCooldown       = 5 * time.Second
	WorkCooldown      = 30 * time.Minute
	CatCooldown       = 24 * time.Hour
	CarCooldown       = 10 * time.Hour
	MinecraftCooldown = time.Minute
	FishingCooldown   = time.Minute
	PostMemeCooldown  = time.Minute
)

// SlotSymbols are the reel faces. Three matching faces pay double the bet.
var SlotSymbols = []string{"🍒", "🍋", "🍊", "🍉", "🍇"}

// DefaultLeaderboardSize bounds every leaderboard query.
const DefaultLeaderboardSize = 10

package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"

	"popcat/chatbot"
	"popcat/geo"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken   string
	DiscordGuildID string

	// Storage configuration
	DatabaseURL string
	RedisURL    string

	// External APIs
	CountryAPIBaseURL string
	QuoteAPIBaseURL   string
	ChatbotAPIBaseURL string
	ChatbotBrainID    string
	ChatbotAPIKey     string

	// Bot configuration
	InitialPocket   int64
	LeaderboardSize int

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from the environment; a .env file is read first
// when present so local development does not need exported variables.
func load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		DiscordToken:   os.Getenv("DISCORD_TOKEN"),
		DiscordGuildID: os.Getenv("DISCORD_GUILD_ID"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		CountryAPIBaseURL: os.Getenv("COUNTRY_API_BASE_URL"),
		QuoteAPIBaseURL:   os.Getenv("QUOTE_API_BASE_URL"),
		ChatbotAPIBaseURL: os.Getenv("CHATBOT_API_BASE_URL"),
		ChatbotBrainID:    os.Getenv("CHATBOT_BRAIN_ID"),
		ChatbotAPIKey:     os.Getenv("CHATBOT_API_KEY"),

		// Defaults
		InitialPocket:   2000,
		LeaderboardSize: 10,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if pocket := os.Getenv("INITIAL_POCKET"); pocket != "" {
		if parsed, err := strconv.ParseInt(pocket, 10, 64); err == nil {
			config.InitialPocket = parsed
		}
	}
	if size := os.Getenv("LEADERBOARD_SIZE"); size != "" {
		if parsed, err := strconv.Atoi(size); err == nil && parsed > 0 {
			config.LeaderboardSize = parsed
		}
	}

	if config.RedisURL == "" {
		config.RedisURL = "redis://localhost:6379/0"
	}
	if config.CountryAPIBaseURL == "" {
		config.CountryAPIBaseURL = geo.DefaultCountryAPIBaseURL
	}
	if config.ChatbotAPIBaseURL == "" {
		config.ChatbotAPIBaseURL = chatbot.DefaultBaseURL
	}
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		// The quote feed has no credential-free public default
		if config.QuoteAPIBaseURL == "" {
			return nil, fmt.Errorf("QUOTE_API_BASE_URL is required")
		}
	}

	return config, nil
}

// ChatbotConfigured reports whether chat relay credentials were supplied.
// Without them the chatbot module stays dormant.
func (c *Config) ChatbotConfigured() bool {
	return c.ChatbotBrainID != "" && c.ChatbotAPIKey != ""
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"popcat/chatbot"
	"popcat/geo"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DISCORD_TOKEN", "DISCORD_GUILD_ID", "DATABASE_URL", "REDIS_URL",
		"COUNTRY_API_BASE_URL", "QUOTE_API_BASE_URL",
		"CHATBOT_API_BASE_URL", "CHATBOT_BRAIN_ID", "CHATBOT_API_KEY",
		"INITIAL_POCKET", "LEADERBOARD_SIZE", "ENVIRONMENT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "test")

	config, err := load()
	require.NoError(t, err)

	assert.Equal(t, geo.DefaultCountryAPIBaseURL, config.CountryAPIBaseURL)
	assert.Equal(t, chatbot.DefaultBaseURL, config.ChatbotAPIBaseURL)
	assert.Equal(t, "redis://localhost:6379/0", config.RedisURL)
	assert.Equal(t, int64(2000), config.InitialPocket)
	assert.Equal(t, 10, config.LeaderboardSize)
	assert.False(t, config.ChatbotConfigured())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("COUNTRY_API_BASE_URL", "http://countries.local")
	t.Setenv("QUOTE_API_BASE_URL", "http://quotes.local")
	t.Setenv("INITIAL_POCKET", "5000")
	t.Setenv("CHATBOT_BRAIN_ID", "brain-1")
	t.Setenv("CHATBOT_API_KEY", "key-1")

	config, err := load()
	require.NoError(t, err)

	assert.Equal(t, "http://countries.local", config.CountryAPIBaseURL)
	assert.Equal(t, "http://quotes.local", config.QuoteAPIBaseURL)
	assert.Equal(t, int64(5000), config.InitialPocket)
	assert.True(t, config.ChatbotConfigured())
}

func TestLoad_RequiredOutsideTestEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://localhost/popcat")

	t.Run("quote URL is required", func(t *testing.T) {
		_, err := load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "QUOTE_API_BASE_URL")
	})

	t.Run("satisfied when set", func(t *testing.T) {
		t.Setenv("QUOTE_API_BASE_URL", "http://quotes.local")
		_, err := load()
		require.NoError(t, err)
	})
}

package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"popcat/repository/testutil"
)

func TestGuildConfigRepository_GetOrCreate(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGuildConfigRepository(testDB.DB)
	ctx := context.Background()

	t.Run("first touch creates an all-disabled config", func(t *testing.T) {
		config, err := repo.GetOrCreate(ctx, 77)
		require.NoError(t, err)
		require.NotNil(t, config)
		assert.Equal(t, int64(77), config.GuildID)
		assert.Nil(t, config.WelcomeChannelID)
		assert.Nil(t, config.TicketCategoryID)
		assert.Nil(t, config.SuggestionChannelID)
		assert.Nil(t, config.ChatbotChannelID)
	})

	t.Run("update round-trips", func(t *testing.T) {
		config, err := repo.GetOrCreate(ctx, 77)
		require.NoError(t, err)

		channelID := int64(12345)
		message := "hello {user}"
		config.WelcomeChannelID = &channelID
		config.WelcomeMessage = &message
		require.NoError(t, repo.Update(ctx, config))

		reloaded, err := repo.GetOrCreate(ctx, 77)
		require.NoError(t, err)
		require.NotNil(t, reloaded.WelcomeChannelID)
		assert.Equal(t, channelID, *reloaded.WelcomeChannelID)
		assert.Equal(t, message, *reloaded.WelcomeMessage)
		assert.True(t, reloaded.WelcomeEnabled())
	})

	t.Run("clearing a module persists nil", func(t *testing.T) {
		config, err := repo.GetOrCreate(ctx, 77)
		require.NoError(t, err)

		config.WelcomeChannelID = nil
		config.WelcomeMessage = nil
		require.NoError(t, repo.Update(ctx, config))

		reloaded, err := repo.GetOrCreate(ctx, 77)
		require.NoError(t, err)
		assert.Nil(t, reloaded.WelcomeChannelID)
		assert.False(t, reloaded.WelcomeEnabled())
	})
}

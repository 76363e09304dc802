package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"popcat/models"
	"popcat/repository/testutil"
)

func TestCommandCountRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewCommandCountRepository(testDB.DB)
	ctx := context.Background()

	t.Run("increment upserts from zero", func(t *testing.T) {
		require.NoError(t, repo.Increment(ctx, models.CommandScopeUser, 42))
		require.NoError(t, repo.Increment(ctx, models.CommandScopeUser, 42))
		require.NoError(t, repo.Increment(ctx, models.CommandScopeGuild, 42))

		count, err := repo.Get(ctx, models.CommandScopeUser, 42)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		count, err = repo.Get(ctx, models.CommandScopeGuild, 42)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("untouched scope reads as zero", func(t *testing.T) {
		count, err := repo.Get(ctx, models.CommandScopeGuild, 99)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("total sums every counter in a scope", func(t *testing.T) {
		require.NoError(t, repo.Increment(ctx, models.CommandScopeUser, 43))

		total, err := repo.Total(ctx, models.CommandScopeUser)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})
}

package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"popcat/repository/testutil"
)

func TestWarningRepository_AddAndList(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewWarningRepository(testDB.DB)
	ctx := context.Background()

	warning := testutil.CreateTestWarning(1, 50, "spamming")
	require.NoError(t, repo.Add(ctx, warning))
	assert.NotZero(t, warning.ID)
	assert.False(t, warning.CreatedAt.IsZero())

	require.NoError(t, repo.Add(ctx, testutil.CreateTestWarning(1, 50, "flooding")))
	require.NoError(t, repo.Add(ctx, testutil.CreateTestWarning(1, 51, "other user")))
	require.NoError(t, repo.Add(ctx, testutil.CreateTestWarning(2, 50, "other guild")))

	warnings, err := repo.ListByUser(ctx, 1, 50)
	require.NoError(t, err)
	require.Len(t, warnings, 2)
	assert.Equal(t, "spamming", warnings[0].Reason)
	assert.Equal(t, "flooding", warnings[1].Reason)
}

func TestWarningRepository_RemoveByPosition(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewWarningRepository(testDB.DB)
	ctx := context.Background()

	for _, reason := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Add(ctx, testutil.CreateTestWarning(1, 60, reason)))
	}

	t.Run("removes the addressed warning", func(t *testing.T) {
		removed, err := repo.RemoveByPosition(ctx, 1, 60, 2)
		require.NoError(t, err)
		assert.True(t, removed)

		warnings, err := repo.ListByUser(ctx, 1, 60)
		require.NoError(t, err)
		require.Len(t, warnings, 2)
		assert.Equal(t, "first", warnings[0].Reason)
		assert.Equal(t, "third", warnings[1].Reason)
	})

	t.Run("later warnings renumber", func(t *testing.T) {
		removed, err := repo.RemoveByPosition(ctx, 1, 60, 2)
		require.NoError(t, err)
		assert.True(t, removed)

		warnings, err := repo.ListByUser(ctx, 1, 60)
		require.NoError(t, err)
		require.Len(t, warnings, 1)
		assert.Equal(t, "first", warnings[0].Reason)
	})

	t.Run("position past the end reports false", func(t *testing.T) {
		removed, err := repo.RemoveByPosition(ctx, 1, 60, 5)
		require.NoError(t, err)
		assert.False(t, removed)
	})
}

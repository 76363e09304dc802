package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"popcat/models"
	"popcat/repository/testutil"
)

func TestGameResultRepository_RecordAndList(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGameResultRepository(testDB.DB)
	ctx := context.Background()

	first := &models.GameResult{UserID: 80, Country: "France", Guesses: 3}
	require.NoError(t, repo.Record(ctx, first))
	assert.NotZero(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	require.NoError(t, repo.Record(ctx, &models.GameResult{UserID: 80, Country: "Japan", Guesses: 1}))
	require.NoError(t, repo.Record(ctx, &models.GameResult{UserID: 81, Country: "Chile", Guesses: 7}))

	t.Run("newest first, scoped to the user", func(t *testing.T) {
		results, err := repo.ListByUser(ctx, 80, 50)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "Japan", results[0].Country)
		assert.Equal(t, "France", results[1].Country)
	})

	t.Run("no wins yet", func(t *testing.T) {
		results, err := repo.ListByUser(ctx, 82, 50)
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestGameResultRepository_WinsLeaderboard(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGameResultRepository(testDB.DB)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Record(ctx, &models.GameResult{UserID: 90, Country: "Peru", Guesses: 2}))
	}
	require.NoError(t, repo.Record(ctx, &models.GameResult{UserID: 91, Country: "Kenya", Guesses: 4}))

	t.Run("ranks by games won", func(t *testing.T) {
		counts, err := repo.WinsLeaderboard(ctx, 10)
		require.NoError(t, err)
		require.Len(t, counts, 2)
		assert.Equal(t, int64(90), counts[0].UserID)
		assert.Equal(t, int64(3), counts[0].Wins)
		assert.Equal(t, int64(91), counts[1].UserID)
	})

	t.Run("respects limit", func(t *testing.T) {
		counts, err := repo.WinsLeaderboard(ctx, 1)
		require.NoError(t, err)
		require.Len(t, counts, 1)
		assert.Equal(t, int64(90), counts[0].UserID)
	})
}

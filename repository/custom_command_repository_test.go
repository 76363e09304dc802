package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"popcat/repository/testutil"
)

func TestCustomCommandRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewCustomCommandRepository(testDB.DB)
	ctx := context.Background()

	t.Run("create and look up", func(t *testing.T) {
		created, err := repo.Create(ctx, testutil.CreateTestCustomCommand(5, "hello"))
		require.NoError(t, err)
		assert.True(t, created)

		cmd, err := repo.Get(ctx, 5, "hello")
		require.NoError(t, err)
		require.NotNil(t, cmd)
		assert.Equal(t, "response for hello", cmd.Response)
	})

	t.Run("duplicate trigger reports false", func(t *testing.T) {
		created, err := repo.Create(ctx, testutil.CreateTestCustomCommand(5, "hello"))
		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("the same trigger in another guild is fine", func(t *testing.T) {
		created, err := repo.Create(ctx, testutil.CreateTestCustomCommand(6, "hello"))
		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("unknown trigger reads as nil", func(t *testing.T) {
		cmd, err := repo.Get(ctx, 5, "missing")
		require.NoError(t, err)
		assert.Nil(t, cmd)
	})

	t.Run("delete reports whether it existed", func(t *testing.T) {
		deleted, err := repo.Delete(ctx, 5, "hello")
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, 5, "hello")
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("list is scoped to the guild", func(t *testing.T) {
		cmds, err := repo.List(ctx, 6)
		require.NoError(t, err)
		require.Len(t, cmds, 1)
		assert.Equal(t, "hello", cmds[0].Trigger)
	})
}

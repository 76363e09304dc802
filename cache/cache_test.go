package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"popcat/models"
)

// setupTestRedis starts a throwaway redis container and connects the shared
// client to it.
func setupTestRedis(t *testing.T) *Client {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
			Labels: map[string]string{
				"test":      "popcat-cache",
				"test-name": t.Name(),
			},
		},
		Started: true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := container.Terminate(cleanupCtx); err != nil {
			t.Logf("Warning: Failed to terminate test container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	client, err := Connect(ctx, fmt.Sprintf("redis://%s:%s", host, port.Port()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestCooldownStore(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewCooldownStore(client)
	store.now = func() time.Time { return now }

	t.Run("ungated before first set", func(t *testing.T) {
		_, gated, err := store.Check(ctx, 1, "work")
		require.NoError(t, err)
		assert.False(t, gated)
	})

	t.Run("gated before expiry", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, 1, "work", 30*time.Minute))

		now = now.Add(10 * time.Minute)
		remaining, gated, err := store.Check(ctx, 1, "work")
		require.NoError(t, err)
		assert.True(t, gated)
		assert.Equal(t, models.Remaining{Minutes: 20}, remaining)
	})

	t.Run("ungated after expiry", func(t *testing.T) {
		now = now.Add(21 * time.Minute)
		_, gated, err := store.Check(ctx, 1, "work")
		require.NoError(t, err)
		assert.False(t, gated)
	})

	t.Run("actions are independent", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, 1, "beg", 5*time.Second))
		_, gated, err := store.Check(ctx, 1, "work")
		require.NoError(t, err)
		assert.False(t, gated)

		_, gated, err = store.Check(ctx, 2, "beg")
		require.NoError(t, err)
		assert.False(t, gated, "other users stay ungated")
	})
}

func TestSessionStore(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()

	store := NewSessionStore(client)

	t.Run("absent session is nil", func(t *testing.T) {
		session, err := store.Get(ctx, 10)
		require.NoError(t, err)
		assert.Nil(t, session)
	})

	t.Run("round-trips a session", func(t *testing.T) {
		put := &models.GameSession{
			CountryName: "France",
			Shortcode:   "fr",
			Lat:         46,
			Lng:         2,
			History:     1,
		}
		require.NoError(t, store.Put(ctx, 10, put))

		got, err := store.Get(ctx, 10)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, put, got)
	})

	t.Run("guess counter increments atomically", func(t *testing.T) {
		n, err := store.IncrementGuess(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		got, err := store.Get(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, 2, got.History)
	})

	t.Run("lists active users", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, 11, &models.GameSession{CountryName: "Japan", Shortcode: "jp", History: 1}))

		users, err := store.ActiveUsers(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []int64{10, 11}, users)
	})

	t.Run("delete removes and tolerates absence", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, 10))
		session, err := store.Get(ctx, 10)
		require.NoError(t, err)
		assert.Nil(t, session)

		require.NoError(t, store.Delete(ctx, 10))
	})
}

func TestAFKStore(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewAFKStore(client)
	store.now = func() time.Time { return now }

	t.Run("absent status is nil", func(t *testing.T) {
		status, err := store.Get(ctx, 20)
		require.NoError(t, err)
		assert.Nil(t, status)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, 20, "lunch"))

		status, err := store.Get(ctx, 20)
		require.NoError(t, err)
		require.NotNil(t, status)
		assert.Equal(t, "lunch", status.Reason)
		assert.True(t, status.Since.Equal(now), "since %v != %v", status.Since, now)
	})

	t.Run("clear reports whether anything was removed", func(t *testing.T) {
		removed, err := store.Clear(ctx, 20)
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = store.Clear(ctx, 20)
		require.NoError(t, err)
		assert.False(t, removed)
	})
}

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Client wraps a redis client. One Client is created at startup and shared
// by every store built on it; the underlying client pools connections and is
// safe for concurrent use.
type Client struct {
	rdb *redis.Client
}

// Connect dials redis and verifies the connection, retrying with a fixed
// delay. The bot cannot gate cooldowns or track game sessions without it, so
// startup fails if every attempt is exhausted.
func Connect(ctx context.Context, redisURL string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opts)

	const maxRetries = 5
	const retryDelay = 2 * time.Second

	for attempt := 1; ; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = rdb.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			return &Client{rdb: rdb}, nil
		}

		log.Warnf("Redis connection attempt %d/%d failed: %v", attempt, maxRetries, err)
		if attempt >= maxRetries {
			rdb.Close()
			return nil, fmt.Errorf("failed to connect to redis after %d attempts: %w", maxRetries, err)
		}

		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			rdb.Close()
			return nil, ctx.Err()
		}
	}
}

// Close closes the underlying redis client.
func (c *Client) Close() error {
	return c.rdb.Close()
}

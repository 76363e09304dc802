package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"popcat/models"
)

// CooldownStore gates named per-user actions behind expiry timestamps held
// in redis. Presence and non-expiry of the key blocks the action; setting is
// idempotent-overwriting, so cooldowns never stack.
//
// Keys are namespaced "{userID}:cooldown:{action}" and the value is the
// expiry time in RFC 3339, with a matching TTL so abandoned keys evict on
// their own.
type CooldownStore struct {
	rdb *redis.Client
	now func() time.Time
}

// NewCooldownStore creates a cooldown store on the shared client.
func NewCooldownStore(c *Client) *CooldownStore {
	return &CooldownStore{rdb: c.rdb, now: time.Now}
}

func cooldownKey(userID int64, action string) string {
	return fmt.Sprintf("%d:cooldown:%s", userID, action)
}

// Check reports the remaining cooldown for (userID, action). The second
// return is true when the action is still gated.
func (s *CooldownStore) Check(ctx context.Context, userID int64, action string) (models.Remaining, bool, error) {
	val, err := s.rdb.Get(ctx, cooldownKey(userID, action)).Result()
	if err == redis.Nil {
		return models.Remaining{}, false, nil
	}
	if err != nil {
		return models.Remaining{}, false, fmt.Errorf("%w: cooldown check for user %d: %v", models.ErrStorageUnavailable, userID, err)
	}

	expiry, err := time.Parse(time.RFC3339, val)
	if err != nil {
		// Unparseable value: treat as expired rather than locking the user out.
		return models.Remaining{}, false, nil
	}

	now := s.now()
	if !expiry.After(now) {
		return models.Remaining{}, false, nil
	}

	return models.RemainingUntil(expiry, now), true, nil
}

// Set arms the cooldown for d, overwriting any previous value.
func (s *CooldownStore) Set(ctx context.Context, userID int64, action string, d time.Duration) error {
	expiry := s.now().Add(d)
	err := s.rdb.Set(ctx, cooldownKey(userID, action), expiry.Format(time.RFC3339), d).Err()
	if err != nil {
		return fmt.Errorf("%w: cooldown set for user %d: %v", models.ErrStorageUnavailable, userID, err)
	}
	return nil
}

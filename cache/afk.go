package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"popcat/models"
)

// AFKStore tracks away status per user under "{userID}:afk".
type AFKStore struct {
	rdb *redis.Client
	now func() time.Time
}

// NewAFKStore creates an AFK store on the shared client.
func NewAFKStore(c *Client) *AFKStore {
	return &AFKStore{rdb: c.rdb, now: time.Now}
}

func afkKey(userID int64) string {
	return fmt.Sprintf("%d:afk", userID)
}

// Set marks the user as away.
func (s *AFKStore) Set(ctx context.Context, userID int64, reason string) error {
	err := s.rdb.HSet(ctx, afkKey(userID), map[string]any{
		"reason": reason,
		"since":  strconv.FormatInt(s.now().Unix(), 10),
	}).Err()
	if err != nil {
		return fmt.Errorf("%w: afk set for user %d: %v", models.ErrStorageUnavailable, userID, err)
	}
	return nil
}

// Get returns the user's away status, or nil if they are not away.
func (s *AFKStore) Get(ctx context.Context, userID int64) (*models.AFKStatus, error) {
	data, err := s.rdb.HGetAll(ctx, afkKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: afk get for user %d: %v", models.ErrStorageUnavailable, userID, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	status := &models.AFKStatus{Reason: data["reason"]}
	if secs, err := strconv.ParseInt(data["since"], 10, 64); err == nil {
		status.Since = time.Unix(secs, 0).UTC()
	}
	return status, nil
}

// Clear removes the user's away status. Clearing an absent status is a
// no-op; the caller reports whether anything was removed.
func (s *AFKStore) Clear(ctx context.Context, userID int64) (bool, error) {
	n, err := s.rdb.Del(ctx, afkKey(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: afk clear for user %d: %v", models.ErrStorageUnavailable, userID, err)
	}
	return n > 0, nil
}

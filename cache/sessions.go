package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"popcat/models"
)

// SessionStore holds active guess-the-country sessions as redis hashes, one
// per user under "{userID}:game". A session persists until the game resolves
// or the player gives up; no TTL is applied.
type SessionStore struct {
	rdb *redis.Client
}

// NewSessionStore creates a session store on the shared client.
func NewSessionStore(c *Client) *SessionStore {
	return &SessionStore{rdb: c.rdb}
}

func sessionKey(userID int64) string {
	return fmt.Sprintf("%d:game", userID)
}

// Get returns the user's active session, or nil if none exists.
func (s *SessionStore) Get(ctx context.Context, userID int64) (*models.GameSession, error) {
	data, err := s.rdb.HGetAll(ctx, sessionKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: session get for user %d: %v", models.ErrStorageUnavailable, userID, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	session := &models.GameSession{
		CountryName: data["country_name"],
		Shortcode:   data["shortcode"],
		History:     1,
	}
	if h, err := strconv.Atoi(data["history"]); err == nil {
		session.History = h
	}

	var latlng [2]float64
	if err := json.Unmarshal([]byte(data["latlng"]), &latlng); err == nil {
		session.Lat, session.Lng = latlng[0], latlng[1]
	}

	return session, nil
}

// Put stores a new session for the user, overwriting any existing hash.
// Callers check for an active session first; Start-level rejection lives in
// the game service.
func (s *SessionStore) Put(ctx context.Context, userID int64, session *models.GameSession) error {
	latlng, err := json.Marshal([2]float64{session.Lat, session.Lng})
	if err != nil {
		return fmt.Errorf("failed to encode latlng: %w", err)
	}

	err = s.rdb.HSet(ctx, sessionKey(userID), map[string]any{
		"country_name": session.CountryName,
		"shortcode":    session.Shortcode,
		"latlng":       string(latlng),
		"history":      strconv.Itoa(session.History),
	}).Err()
	if err != nil {
		return fmt.Errorf("%w: session put for user %d: %v", models.ErrStorageUnavailable, userID, err)
	}
	return nil
}

// IncrementGuess bumps the guess counter atomically and returns the new
// value. HINCRBY tolerates duplicate command delivery better than
// read-then-write.
func (s *SessionStore) IncrementGuess(ctx context.Context, userID int64) (int, error) {
	n, err := s.rdb.HIncrBy(ctx, sessionKey(userID), "history", 1).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: session increment for user %d: %v", models.ErrStorageUnavailable, userID, err)
	}
	return int(n), nil
}

// Delete removes the user's session. Deleting an absent session is a no-op.
func (s *SessionStore) Delete(ctx context.Context, userID int64) error {
	if err := s.rdb.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("%w: session delete for user %d: %v", models.ErrStorageUnavailable, userID, err)
	}
	return nil
}

// ActiveUsers scans for every user holding a session. Admin listing only.
func (s *SessionStore) ActiveUsers(ctx context.Context) ([]int64, error) {
	var users []int64
	iter := s.rdb.Scan(ctx, 0, "*:game", 100).Iterator()
	for iter.Next(ctx) {
		idStr := strings.TrimSuffix(iter.Val(), ":game")
		if id, err := strconv.ParseInt(idStr, 10, 64); err == nil {
			users = append(users, id)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: session scan: %v", models.ErrStorageUnavailable, err)
	}
	return users, nil
}

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"vibeboxing/internal/cache"
)

const (
	sessionKeyPrefix     = "session:"
	userSessionKeyPrefix = "user_sessions:"
)

// RedisSessionStore handles storage and retrieval of sessions in Redis.
// Each user also owns a set of session keys so all sessions can be revoked at once.
type RedisSessionStore struct {
	cache *cache.Client
	ttl   time.Duration
	now   func() time.Time
}

// Ensure RedisSessionStore implements SessionStore
var _ SessionStore = (*RedisSessionStore)(nil)

// NewRedisSessionStore creates a new session store backed by c.
func NewRedisSessionStore(c *cache.Client, ttl time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = SessionTTL
	}
	return &RedisSessionStore{cache: c, ttl: ttl, now: time.Now}
}

func userSessionsKey(userID uint) string {
	return userSessionKeyPrefix + strconv.FormatUint(uint64(userID), 10)
}

// Create stores a new session with TTL.
func (s *RedisSessionStore) Create(ctx context.Context, userID uint) (string, error) {
	id, err := NewSessionID()
	if err != nil {
		return "", err
	}
	now := s.now()
	if err := s.save(ctx, hashSessionID(id), &Session{UserID: userID, ExpiresAt: now.Add(s.ttl), LastSeenAt: now}); err != nil {
		return "", err
	}
	_ = s.cache.AddToSet(ctx, userSessionsKey(userID), s.ttl, hashSessionID(id))
	return id, nil
}

func (s *RedisSessionStore) save(ctx context.Context, key string, sess *Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.cache.Set(ctx, sessionKeyPrefix+key, payload, s.ttl)
}

// Touch retrieves session data from Redis and refreshes its TTL.
func (s *RedisSessionStore) Touch(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrSessionNotFound
	}
	key := hashSessionID(id)
	data, err := s.cache.Get(ctx, sessionKeyPrefix+key)
	if err != nil || data == nil {
		return nil, ErrSessionNotFound
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	now := s.now()
	if !now.Before(sess.ExpiresAt) {
		_ = s.cache.Delete(ctx, sessionKeyPrefix+key)
		return nil, ErrSessionNotFound
	}
	sess.ExpiresAt = now.Add(s.ttl)
	sess.LastSeenAt = now
	if err := s.save(ctx, key, &sess); err != nil {
		return nil, err
	}
	_ = s.cache.Expire(ctx, userSessionsKey(sess.UserID), s.ttl)
	return &sess, nil
}

// Delete removes a session from Redis.
func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	key := hashSessionID(id)
	data, _ := s.cache.Get(ctx, sessionKeyPrefix+key)
	if data != nil {
		var sess Session
		if json.Unmarshal(data, &sess) == nil {
			_ = s.cache.RemoveFromSet(ctx, userSessionsKey(sess.UserID), key)
		}
	}
	return s.cache.Delete(ctx, sessionKeyPrefix+key)
}

// DeleteUser removes every session listed in the user's index.
func (s *RedisSessionStore) DeleteUser(ctx context.Context, userID uint) error {
	for _, key := range s.cache.SetMembers(ctx, userSessionsKey(userID)) {
		_ = s.cache.Delete(ctx, sessionKeyPrefix+key)
	}
	return s.cache.Delete(ctx, userSessionsKey(userID))
}

// Close is a no-op; the redis client is owned by the caller.
func (s *RedisSessionStore) Close() error { return nil }

package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSessionStore keeps sessions in redis so conversations survive
// a process restart. Keys expire after the TTL, which doubles as the
// idle-session eviction policy.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore creates a redis-backed session store.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	if client == nil {
		panic("chat: redis client cannot be nil")
	}
	return &RedisSessionStore{client: client, ttl: ttl}
}

func sessionKey(number string) string {
	return fmt.Sprintf("session:%s", number)
}

// Get returns the caller's session, or nil when none exists.
func (s *RedisSessionStore) Get(ctx context.Context, number string) (*Session, error) {
	data, err := s.client.Get(ctx, sessionKey(number)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("chat: failed to load session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("chat: failed to decode session: %w", err)
	}
	return &sess, nil
}

// Put stores the session with the configured TTL.
func (s *RedisSessionStore) Put(ctx context.Context, number string, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("chat: failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(number), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("chat: failed to persist session: %w", err)
	}
	return nil
}

// Reset replaces the caller's session with a fresh main-menu one.
func (s *RedisSessionStore) Reset(ctx context.Context, number string, clientID int64) error {
	return s.Put(ctx, number, &Session{ClientID: clientID, State: StateMainMenu})
}

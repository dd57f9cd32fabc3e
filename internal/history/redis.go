package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

var _ Store = (*RedisStore)(nil)

// RedisStore persists room histories as whole JSON-encoded lists in Redis,
// one key per room. The whole-value GET/SET shape matches the Store contract:
// a reader sees either the previous list or nothing, never a torn write.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &RedisStore{client: client}, nil
}

// Get returns the history for a room, oldest first.
func (s *RedisStore) Get(ctx context.Context, room string) ([]Message, error) {
	data, err := s.client.Get(ctx, Key(room)).Bytes()
	if err == redis.Nil {
		return []Message{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history for room %q: %w", room, err)
	}

	var msgs []Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("malformed history for room %q: %w", room, err)
	}
	return msgs, nil
}

// Put replaces the stored history for a room.
func (s *RedisStore) Put(ctx context.Context, room string, msgs []Message) error {
	data, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("failed to encode history for room %q: %w", room, err)
	}
	if err := s.client.Set(ctx, Key(room), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write history for room %q: %w", room, err)
	}
	return nil
}

// Clear resets the stored history for a room to empty.
func (s *RedisStore) Clear(ctx context.Context, room string) error {
	return s.Put(ctx, room, []Message{})
}

// Close closes the underlying Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

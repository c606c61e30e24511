package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// KV is the durable key-value contract the state stores persist through.
// Values are opaque JSON blobs keyed by a stable name and must round-trip
// exactly: write, reload and read yields identical state.
type KV interface {
	// GetJSON unmarshals the stored blob into dst and reports whether the key existed.
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	// SetJSON serialises v and stores it under key.
	SetJSON(ctx context.Context, key string, v any) error
	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// RedisKV stores JSON blobs in Redis. A zero TTL keeps keys until they are
// explicitly deleted, which is what the cart and checkout aggregates need; a
// positive TTL turns the store into an expiring cache.
type RedisKV struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisKV constructs a Redis-backed store.
func NewRedisKV(client *redis.Client, ttl time.Duration) *RedisKV {
	return &RedisKV{client: client, ttl: ttl}
}

// GetJSON implements KV.
func (s *RedisKV) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	if s == nil || s.client == nil || key == "" {
		return false, nil
	}
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON implements KV.
func (s *RedisKV) SetJSON(ctx context.Context, key string, v any) error {
	if s == nil || s.client == nil || key == "" {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, s.ttl).Err()
}

// Delete implements KV.
func (s *RedisKV) Delete(ctx context.Context, key string) error {
	if s == nil || s.client == nil || key == "" {
		return nil
	}
	return s.client.Del(ctx, key).Err()
}

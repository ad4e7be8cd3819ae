package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/hoverfx/pkg/errors"
)

// RedisClient is the subset of the go-redis API the store uses.
// *redis.Client and *redis.ClusterClient satisfy it.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore keeps snapshots in Redis. Keys expire with the snapshot, so
// Cleanup has nothing to do.
type RedisStore struct {
	client RedisClient
	prefix string
}

// DefaultRedisPrefix namespaces snapshot keys.
const DefaultRedisPrefix = "hoverfx:session:"

// NewRedisStore creates a store on client. An empty prefix uses
// DefaultRedisPrefix.
func NewRedisStore(client RedisClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(id string) (string, error) {
	if err := errors.ValidateID(id); err != nil {
		return "", err
	}
	return s.prefix + id, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	key, err := s.key(id)
	if err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if snap.IsExpired() {
		return nil, nil
	}
	return &snap, nil
}

func (s *RedisStore) Set(ctx context.Context, snap *Snapshot) error {
	key, err := s.key(snap.ID)
	if err != nil {
		return err
	}
	ttl := time.Until(snap.ExpiresAt)
	if ttl <= 0 {
		return s.Delete(ctx, snap.ID)
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	key, err := s.key(id)
	if err != nil {
		return err
	}
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Cleanup(ctx context.Context) error { return nil }

var _ Store = (*RedisStore)(nil)

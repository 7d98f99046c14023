package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/okian/kickout/internal/domain/model"
)

// RedisStore keeps the entry as one Redis string key.
type RedisStore struct {
	rdb *redis.Client
	key string
}

// NewRedisStore connects using a URL such as redis://localhost:6379/0 and
// verifies the connection.
func NewRedisStore(ctx context.Context, url, key string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return NewRedisStoreFromClient(rdb, key), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(rdb *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultKey
	}
	return &RedisStore{rdb: rdb, key: key}
}

// Load reads the key.
func (s *RedisStore) Load(ctx context.Context) ([]model.Record, error) {
	b, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis: load: %w", err)
	}
	return decode(b)
}

// Save sets the key without expiry.
func (s *RedisStore) Save(ctx context.Context, log []model.Record) error {
	b, err := encode(log)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.key, b, 0).Err(); err != nil {
		return fmt.Errorf("redis: save: %w", err)
	}
	return nil
}

// Remove deletes the key.
func (s *RedisStore) Remove(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis: remove: %w", err)
	}
	return nil
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

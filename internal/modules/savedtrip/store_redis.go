// README: Saved trip lists in Redis, one JSON string per client key.
package savedtrip

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisPrefix = "tripcost:saved:"

type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore stores lists under prefix+clientKey. A zero ttl keeps them forever.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context, clientKey string) ([]SavedTrip, error) {
	data, err := s.client.Get(ctx, s.key(clientKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []SavedTrip{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get saved trips: %w", err)
	}
	return decodeList(data)
}

func (s *RedisStore) Save(ctx context.Context, clientKey string, trips []SavedTrip) error {
	data, err := encodeList(trips)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(clientKey), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("set saved trips: %w", err)
	}
	return nil
}

func (s *RedisStore) key(clientKey string) string {
	return s.prefix + clientKey
}

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/gouravdhdb/storefront/internal/port"
	"github.com/redis/go-redis/v9"
)

type redisKV struct {
	client *redis.Client
	prefix string
}

// NewRedis returns a Redis-backed store. Keys are namespaced under
// "storefront:".
func NewRedis(client *redis.Client) port.Store {
	return &kvStore{kv: &redisKV{client: client, prefix: "storefront:"}}
}

func (r *redisKV) get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis.Get: %w", err)
	}

	return raw, true, nil
}

func (r *redisKV) put(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis.Set: %w", err)
	}
	return nil
}

func (r *redisKV) del(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis.Del: %w", err)
	}
	return nil
}

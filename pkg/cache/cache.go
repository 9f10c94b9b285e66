package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// BoardCache stores serialized board payloads keyed by team name.
type BoardCache interface {
	// Get decodes the cached value into dst and reports whether it was found.
	Get(ctx context.Context, team string, dst any) (bool, error)
	// Set stores value with the cache's expiry.
	Set(ctx context.Context, team string, value any) error
	// Delete drops the entry for team.
	Delete(ctx context.Context, team string) error
}

const keyPrefix = "board:"

type redisBoardCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisBoardCache creates a BoardCache backed by redis.
func NewRedisBoardCache(client redis.UniversalClient, ttl time.Duration) BoardCache {
	return &redisBoardCache{
		client: client,
		ttl:    ttl,
	}
}

// NewRedisClient connects to redis and verifies the connection with a ping.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return client, nil
}

func (c *redisBoardCache) Get(ctx context.Context, team string, dst any) (bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+team).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode cached board %q: %w", team, err)
	}
	return true, nil
}

func (c *redisBoardCache) Set(ctx context.Context, team string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, keyPrefix+team, raw, c.ttl).Err()
}

func (c *redisBoardCache) Delete(ctx context.Context, team string) error {
	return c.client.Del(ctx, keyPrefix+team).Err()
}

package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pribylovaa/go-featured-image/internal/models"
)

type redisCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedis создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "xefi:sizes:".
func NewRedis(redisURL, prefix string) (Cache, error) {
	if prefix == "" {
		prefix = "xefi:sizes:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &redisCache{rdb: rdb, prefix: prefix}, nil
}

func (c *redisCache) Get(ctx context.Context, photoID string, policy models.SizePolicy) (string, bool, error) {
	url, err := c.rdb.Get(ctx, key(c.prefix, photoID, policy)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return url, true, nil
}

func (c *redisCache) Set(ctx context.Context, photoID string, policy models.SizePolicy, url string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	return c.rdb.Set(ctx, key(c.prefix, photoID, policy), url, ttl).Err()
}

func (c *redisCache) Close() error { return c.rdb.Close() }

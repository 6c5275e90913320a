package riskalert

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cooldown keeps the same alert from being dispatched again within its ttl.
type Cooldown interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

func NewRedisCooldown(client *redis.Client) Cooldown {
	return &redisCooldown{
		client: client,
		prefix: "risk-alert:",
	}
}

type redisCooldown struct {
	client *redis.Client
	prefix string
}

func (c *redisCooldown) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, c.prefix+key, time.Now().Unix(), ttl).Result()
}

func (c *redisCooldown) Release(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}

// NoCooldown is used when redis is not configured.
type NoCooldown struct{}

func (NoCooldown) Acquire(context.Context, string, time.Duration) (bool, error) {
	return true, nil
}

func (NoCooldown) Release(context.Context, string) error {
	return nil
}

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"cart-backend/internal/domain"
)

const keyPrefix = "cart:"

// RedisCache stores carts as JSON strings with a fixed TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisOptions configures the connection used by NewRedisCache.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisCache connects to redis and checks the connection with PING.
func NewRedisCache(ctx context.Context, opts RedisOptions) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}
	return &RedisCache{client: client, ttl: opts.TTL}, nil
}

func (c *RedisCache) Get(ctx context.Context, userID string) (domain.Cart, bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return nil, false, fmt.Errorf("decode cached cart: %w", err)
	}
	return cart.Normalize(), true, nil
}

func (c *RedisCache) Set(ctx context.Context, userID string, cart domain.Cart) error {
	raw, err := json.Marshal(cart.Normalize())
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+userID, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisCache) Add(ctx context.Context, userID string, cart domain.Cart) (bool, error) {
	raw, err := json.Marshal(cart.Normalize())
	if err != nil {
		return false, fmt.Errorf("encode cart: %w", err)
	}
	added, err := c.client.SetNX(ctx, keyPrefix+userID, raw, c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return added, nil
}

func (c *RedisCache) Delete(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, keyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

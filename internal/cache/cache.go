package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps redis.Client and fails safe: connectivity errors behave like
// cache misses so the API keeps serving from the database when Redis is down.
// A nil *Client is valid and caches nothing.
type Client struct {
	client *redis.Client
}

// New creates a new Redis-backed client.
func New(addr, password string, db int) *Client {
	return NewFromRedis(redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}))
}

// NewFromRedis wraps an existing redis client.
func NewFromRedis(rdb *redis.Client) *Client {
	return &Client{client: rdb}
}

// Ping reports whether Redis is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return redis.ErrClosed
	}
	return c.client.Ping(ctx).Err()
}

// Get returns value or nil if missing or redis unavailable.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	res, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// redis.Nil and transport errors both read as a miss
		return nil, nil
	}
	return res, nil
}

// Exists reports whether key is present. Unavailable redis reads as absent.
func (c *Client) Exists(ctx context.Context, key string) bool {
	if c == nil || c.client == nil {
		return false
	}
	n, err := c.client.Exists(ctx, key).Result()
	return err == nil && n > 0
}

// Set stores value with TTL, ignoring redis errors.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}
	_ = c.client.Set(ctx, key, value, ttl).Err()
	return nil
}

// Delete removes a key, ignoring redis errors.
func (c *Client) Delete(ctx context.Context, key string) error {
	if c == nil || c.client == nil {
		return nil
	}
	_ = c.client.Del(ctx, key).Err()
	return nil
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

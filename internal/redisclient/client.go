package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func scoreKey(customerID int64) string {
	return fmt.Sprintf("reliability:%d", customerID)
}

// GetScore returns the cached reliability classification for a customer,
// or "" when none is cached.
func (c *Client) GetScore(ctx context.Context, customerID int64) (string, error) {
	val, err := c.rdb.Get(ctx, scoreKey(customerID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// SetScore caches a reliability classification with a TTL
func (c *Client) SetScore(ctx context.Context, customerID int64, classification string, ttl time.Duration) error {
	return c.rdb.Set(ctx, scoreKey(customerID), classification, ttl).Err()
}

// InvalidateScore drops a cached classification after the underlying debt
// history changed
func (c *Client) InvalidateScore(ctx context.Context, customerID int64) error {
	return c.rdb.Del(ctx, scoreKey(customerID)).Err()
}

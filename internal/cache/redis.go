package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection settings
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Client wraps a Redis connection with the small operation set the API
// needs: windowed counters, JSON cache entries, and cooldown flags.
type Client struct {
	rdb *redis.Client
}

// New creates an unconnected client
func New(cfg Config) *Client {
	return &Client{
		rdb: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

const (
	connectRetries = 10
	maxBackoff     = 30 * time.Second
)

// Connect verifies the connection, retrying with exponential backoff.
// Redis frequently comes up after the API in compose environments.
func (c *Client) Connect(ctx context.Context) error {
	for i := 0; i < connectRetries; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := c.rdb.Ping(pingCtx).Err()
		cancel()

		if err == nil {
			return nil
		}

		if i == connectRetries-1 {
			return fmt.Errorf("redis unreachable after %d retries: %w", connectRetries, err)
		}

		backoff := time.Duration(1<<i) * time.Second
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
		slog.Warn("redis not ready, retrying", "backoff", backoff, "attempt", i+1)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Ping checks connection health
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close releases the connection pool
func (c *Client) Close() error {
	return c.rdb.Close()
}

// IncrWindow increments a fixed-window counter, setting the window TTL
// on first increment only. Returns the post-increment count and the
// remaining window.
func (c *Client) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)

	_, err := c.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	remaining := ttl.Val()
	if remaining < 0 {
		remaining = window
	}
	return incr.Val(), remaining, nil
}

// GetJSON loads a cached value into dest. Returns false on a miss.
func (c *Client) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		// Stale or corrupt entry; treat as a miss
		return false, nil
	}
	return true, nil
}

// SetJSON stores a value as JSON with a TTL
func (c *Client) SetJSON(ctx context.Context, key string, val interface{}, ttl time.Duration) error {
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, data, ttl).Err()
}

// SetNX sets a cooldown flag. Returns false when the flag already exists.
func (c *Client) SetNX(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, key, "1", ttl).Result()
}

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string
	EventTTL time.Duration
}

// Client caches event catalog pages in Redis. Seat and capacity state is
// never cached; availability is always computed by the store under its own
// locking.
type Client struct {
	rdb      *redis.Client
	eventTTL time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb, eventTTL: cfg.EventTTL}, nil
}

func eventsListKey(page, pageSize int) string {
	return fmt.Sprintf("events:list:%d:%d", page, pageSize)
}

// GetEventsListRaw returns a cached events page as raw JSON, avoiding a
// decode/encode round trip on the hot path.
func (c *Client) GetEventsListRaw(ctx context.Context, page, pageSize int) ([]byte, error) {
	data, err := c.rdb.Get(ctx, eventsListKey(page, pageSize)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("events list not cached")
		}
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}
	return data, nil
}

// SetEventsList stores an events page. Failures are logged, never surfaced;
// the cache is an optimization, not a source of truth.
func (c *Client) SetEventsList(ctx context.Context, page, pageSize int, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to marshal events list for cache", "error", err)
		return
	}

	if err := c.rdb.Set(ctx, eventsListKey(page, pageSize), payload, c.eventTTL).Err(); err != nil {
		slog.Error("Failed to cache events list", "error", err)
	}
}

// InvalidateEvents drops all cached event pages after a catalog mutation.
func (c *Client) InvalidateEvents(ctx context.Context) {
	iter := c.rdb.Scan(ctx, 0, "events:list:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			slog.Error("Failed to invalidate cached events page", "key", iter.Val(), "error", err)
		}
	}
	if err := iter.Err(); err != nil {
		slog.Error("Failed to scan cached events pages", "error", err)
	}
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

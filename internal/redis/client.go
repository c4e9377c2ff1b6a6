package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pizzeria/internal/models"

	"github.com/go-redis/redis/v8"
)

// Client caches recent status history per order. It is not the source of
// truth: entries expire and are lost on flush.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

func Initialize(redisURL string, ttl time.Duration) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

func historyKey(orderID uint) string {
	return fmt.Sprintf("order_status_history:%d", orderID)
}

// InvalidateStatusHistory drops the cached history of an order so the next
// read rebuilds it from the database.
func (c *Client) InvalidateStatusHistory(ctx context.Context, orderID uint) error {
	if err := c.rdb.Del(ctx, historyKey(orderID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate status history: %w", err)
	}
	return nil
}

// GetStatusHistory returns cached records oldest first. A cache miss yields
// found == false.
func (c *Client) GetStatusHistory(ctx context.Context, orderID uint) (records []models.StatusChangeRecord, found bool, err error) {
	values, err := c.rdb.LRange(ctx, historyKey(orderID), 0, -1).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get status history: %w", err)
	}
	if len(values) == 0 {
		return nil, false, nil
	}

	records = make([]models.StatusChangeRecord, 0, len(values))
	for _, v := range values {
		var record models.StatusChangeRecord
		if err := json.Unmarshal([]byte(v), &record); err != nil {
			return nil, false, fmt.Errorf("failed to unmarshal status change: %w", err)
		}
		records = append(records, record)
	}
	return records, true, nil
}

// StoreStatusHistory replaces the cached history for an order, used to warm
// the cache after a durable read.
func (c *Client) StoreStatusHistory(ctx context.Context, orderID uint, records []models.StatusChangeRecord) error {
	if len(records) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(records))
	for i := range records {
		data, err := json.Marshal(&records[i])
		if err != nil {
			return fmt.Errorf("failed to marshal status change: %w", err)
		}
		values = append(values, data)
	}

	key := historyKey(orderID)
	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, key)
	pipe.RPush(ctx, key, values...)
	if c.ttl > 0 {
		pipe.Expire(ctx, key, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store status history: %w", err)
	}
	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL constants
const (
	TTLBadge   = 30 * time.Second // notification badge count (refreshed by polling)
	TTLEvent   = 5 * time.Minute  // event detail
	TTLDefault = 5 * time.Minute
)

// Cache key prefixes
const (
	PrefixBadge = "badge:"
	PrefixEvent = "event:"
)

// Service Redis cache interface
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	// Notification badge count
	GetBadgeCount(ctx context.Context, userID string) (int, error)
	SetBadgeCount(ctx context.Context, userID string, count int) error
	InvalidateBadge(ctx context.Context, userID string) error

	// Event detail
	GetEvent(ctx context.Context, eventID int64) ([]byte, error)
	SetEvent(ctx context.Context, eventID int64, data interface{}) error
	InvalidateEvent(ctx context.Context, eventID int64) error

	IsAvailable() bool
}

type redisCache struct {
	client *redis.Client
}

// NewService creates a Redis-backed cache service
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

// IsAvailable reports whether Redis is reachable in principle
func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

// Get reads a JSON value from the cache
func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return fmt.Errorf("redis not available")
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

// Set writes a JSON value to the cache
func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil // no Redis, no cache
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

// Delete removes keys from the cache
func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *redisCache) badgeKey(userID string) string {
	return PrefixBadge + userID
}

func (c *redisCache) GetBadgeCount(ctx context.Context, userID string) (int, error) {
	if c.client == nil {
		return 0, fmt.Errorf("redis not available")
	}
	val, err := c.client.Get(ctx, c.badgeKey(userID)).Result()
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(val)
}

func (c *redisCache) SetBadgeCount(ctx context.Context, userID string, count int) error {
	if c.client == nil {
		return nil
	}
	return c.client.Set(ctx, c.badgeKey(userID), strconv.Itoa(count), TTLBadge).Err()
}

func (c *redisCache) InvalidateBadge(ctx context.Context, userID string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.badgeKey(userID)).Err()
}

func (c *redisCache) eventKey(eventID int64) string {
	return PrefixEvent + strconv.FormatInt(eventID, 10)
}

func (c *redisCache) GetEvent(ctx context.Context, eventID int64) ([]byte, error) {
	if c.client == nil {
		return nil, fmt.Errorf("redis not available")
	}
	return c.client.Get(ctx, c.eventKey(eventID)).Bytes()
}

func (c *redisCache) SetEvent(ctx context.Context, eventID int64, data interface{}) error {
	if c.client == nil {
		return nil
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.eventKey(eventID), jsonData, TTLEvent).Err()
}

func (c *redisCache) InvalidateEvent(ctx context.Context, eventID int64) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.eventKey(eventID)).Err()
}

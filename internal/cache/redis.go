// Package cache wraps the Redis client used for rate limiting and for
// caching LLM advice. Every caller must cope with a nil client: Redis is
// optional and the app runs without it.
package cache

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects and pings. It returns nil when addr is empty or
// the server does not answer within two seconds.
func NewRedisClient(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("cache: redis at %s unavailable: %v", addr, err)
		_ = client.Close()
		return nil
	}
	return client
}

// AdviceCache keeps generated advice text per key with a fixed TTL.
type AdviceCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewAdviceCache(rdb *redis.Client, ttl time.Duration) *AdviceCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &AdviceCache{rdb: rdb, ttl: ttl, prefix: "campusmart:"}
}

func (c *AdviceCache) Get(ctx context.Context, key string) (string, bool) {
	if c == nil || c.rdb == nil {
		return "", false
	}
	v, err := c.rdb.Get(ctx, c.prefix+key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("cache: get %s: %v", key, err)
		}
		return "", false
	}
	return v, true
}

func (c *AdviceCache) Set(ctx context.Context, key, value string) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.SetEx(ctx, c.prefix+key, value, c.ttl).Err(); err != nil {
		log.Printf("cache: set %s: %v", key, err)
	}
}

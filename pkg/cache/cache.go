// Package cache wraps the shared Redis client. Every helper degrades
// when Redis is down: reads miss, writes vanish, and the storefront
// keeps serving straight from the database.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/villageangel/config"
	"github.com/shashiranjanraj/villageangel/pkg/metrics"
)

// RDB is the shared client, nil while Redis is unreachable. The queue's
// Redis driver borrows it rather than opening a second pool.
var RDB *redis.Client

// Connect dials Redis and verifies it with a ping. On failure RDB stays
// nil and every helper becomes a no-op.
func Connect() error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache: redis ping: %w", err)
	}

	RDB = client
	return nil
}

// Available reports whether Redis is connected.
func Available() bool { return RDB != nil }

// Get loads key into dest, reporting a hit. Misses, decode failures and
// an absent Redis all read as false.
func Get(key string, dest interface{}) bool {
	hit := load(key, dest)
	metrics.RecordCacheLookup("redis", hit)
	return hit
}

func load(key string, dest interface{}) bool {
	if RDB == nil {
		return false
	}
	raw, err := RDB.Get(context.Background(), key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// Set stores value under key for ttl.
func Set(key string, value interface{}, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return RDB.Set(context.Background(), key, raw, ttl).Err()
}

// SetNX claims key if it is free: (true, nil) means this caller won it.
// Unlike the other helpers it fails loudly without Redis, because
// single-use token bookkeeping must not silently pass.
func SetNX(key string, value interface{}, ttl time.Duration) (bool, error) {
	if RDB == nil {
		return false, redis.ErrClosed
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	return RDB.SetNX(context.Background(), key, raw, ttl).Result()
}

// Del removes keys.
func Del(keys ...string) error {
	if RDB == nil {
		return nil
	}
	return RDB.Del(context.Background(), keys...).Err()
}

// Forget removes one key; reads better at invalidation call sites.
func Forget(key string) error { return Del(key) }

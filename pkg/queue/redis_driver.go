package queue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	readyKey   = "villageangel:queue:ready"
	delayedKey = "villageangel:queue:delayed"
)

// RedisDriver keeps the queue in Redis so jobs survive restarts and
// multiple worker processes share one backlog. Ready jobs live in a
// list; delayed jobs wait in a sorted set scored by their due time and
// a background loop promotes them when it arrives.
type RedisDriver struct {
	rdb *redis.Client
}

// NewRedisDriver wraps an existing client, normally the one pkg/cache
// already holds.
func NewRedisDriver(rdb *redis.Client) *RedisDriver {
	d := &RedisDriver{rdb: rdb}
	go d.promote()
	return d
}

func (d *RedisDriver) Push(payload []byte) error {
	if err := d.rdb.LPush(context.Background(), readyKey, payload).Err(); err != nil {
		return fmt.Errorf("queue/redis: push: %w", err)
	}
	return nil
}

// Pop blocks up to five seconds; a timeout returns nil, nil so workers
// re-check their context regularly.
func (d *RedisDriver) Pop(ctx context.Context) ([]byte, error) {
	res, err := d.rdb.BRPop(ctx, 5*time.Second, readyKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("queue/redis: pop: %w", err)
	}
	if len(res) < 2 {
		return nil, nil
	}
	return []byte(res[1]), nil
}

// PushDelayed parks the payload until its due time.
func (d *RedisDriver) PushDelayed(payload []byte, delay time.Duration) error {
	member := redis.Z{
		Score:  float64(time.Now().Add(delay).Unix()),
		Member: string(payload),
	}
	if err := d.rdb.ZAdd(context.Background(), delayedKey, member).Err(); err != nil {
		return fmt.Errorf("queue/redis: push delayed: %w", err)
	}
	return nil
}

func (d *RedisDriver) promote() {
	ctx := context.Background()
	tick := time.NewTicker(time.Second)
	defer tick.Stop()

	for range tick.C {
		due, err := d.rdb.ZRangeByScore(ctx, delayedKey, &redis.ZRangeBy{
			Min: "-inf",
			Max: strconv.FormatInt(time.Now().Unix(), 10),
		}).Result()
		if err != nil || len(due) == 0 {
			continue
		}

		pipe := d.rdb.TxPipeline()
		for _, payload := range due {
			pipe.ZRem(ctx, delayedKey, payload)
			pipe.LPush(ctx, readyKey, []byte(payload))
		}
		if _, err := pipe.Exec(ctx); err != nil {
			continue
		}
	}
}

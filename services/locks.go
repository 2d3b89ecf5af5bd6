package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSlotBusy means another request currently holds the lock for the same
// conflict domain, so the caller should report a conflict.
var ErrSlotBusy = errors.New("slot lock held by another request")

// SlotLocker serializes writers per conflict key (service+date+time for
// bookings, request+provider for bids). It narrows the read-then-write race
// window; it is advisory, not a transaction.
type SlotLocker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// RedisLocker implements SlotLocker with a short-lived SETNX lock.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client, ttl: 10 * time.Second}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	lockKey := "lock:" + key
	ok, err := l.client.SetNX(ctx, lockKey, "1", l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSlotBusy
	}
	return func() {
		if err := l.client.Del(context.Background(), lockKey).Err(); err != nil {
			log.Printf("⚠️ Failed to release lock %s: %v", lockKey, err)
		}
	}, nil
}

// NoopLocker is used when no Redis is configured. The read-then-write race
// stays open in that mode.
type NoopLocker struct{}

func (NoopLocker) Acquire(ctx context.Context, key string) (func(), error) {
	return func() {}, nil
}

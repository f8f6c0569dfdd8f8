package scheduling

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SlotLocker provides the per-slot exclusive booking intent. Acquire returns
// ok=false when another booking already holds the slot; the caller must
// reject immediately rather than wait.
type SlotLocker interface {
	Acquire(ctx context.Context, slotID string) (release func(), ok bool, err error)
}

// RedisSlotLocker implements SlotLocker with a SETNX advisory lock. The TTL
// bounds how long a crashed holder can block a slot; a live holder always
// releases explicitly.
type RedisSlotLocker struct {
	Client *redis.Client
	TTL    time.Duration
	Logger *zap.Logger
}

func NewRedisSlotLocker(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisSlotLocker {
	return &RedisSlotLocker{Client: client, TTL: ttl, Logger: logger}
}

func (l *RedisSlotLocker) Acquire(ctx context.Context, slotID string) (func(), bool, error) {
	key := "booking:lock:" + slotID
	token := uuid.New().String()

	ok, err := l.Client.SetNX(ctx, key, token, l.TTL).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		// Token check so a holder whose lock expired cannot release a
		// successor's lock. Release runs on a fresh context; the caller's
		// may already be cancelled.
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		val, err := l.Client.Get(rctx, key).Result()
		if err != nil {
			if err != redis.Nil {
				l.Logger.Warn("failed to read booking lock on release",
					zap.String("slot_id", slotID), zap.Error(err))
			}
			return
		}
		if val != token {
			return
		}
		if err := l.Client.Del(rctx, key).Err(); err != nil {
			l.Logger.Warn("failed to release booking lock",
				zap.String("slot_id", slotID), zap.Error(err))
		}
	}
	return release, true, nil
}

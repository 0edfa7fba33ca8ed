package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/admin/astromood/chart-api/internal/ports/lock"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const lockKeyPrefix = "lock:"

// снимаем ключ только если он всё ещё наш
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker распределённая блокировка через SET NX PX
type Locker struct {
	client *redis.Client
}

func NewLocker(client *redis.Client) *Locker {
	return &Locker{client: client}
}

// TryLock пытается занять key на ttl. Не ждёт освобождения.
func (l *Locker) TryLock(ctx context.Context, key string, ttl time.Duration) (lock.ReleaseFunc, bool, error) {
	token := uuid.NewString()
	fullKey := lockKeyPrefix + key

	ok, err := l.client.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("redis setnx failed: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	var once sync.Once
	release := func(ctx context.Context) error {
		var releaseErr error
		once.Do(func() {
			if err := releaseScript.Run(ctx, l.client, []string{fullKey}, token).Err(); err != nil {
				releaseErr = fmt.Errorf("redis lock release failed: %w", err)
			}
		})
		return releaseErr
	}

	return release, true, nil
}

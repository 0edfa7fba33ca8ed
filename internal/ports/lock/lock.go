package lock

import (
	"context"
	"time"
)

// ReleaseFunc снимает блокировку. Повторный вызов безопасен.
type ReleaseFunc func(ctx context.Context) error

// ILocker неблокирующая блокировка по ключу.
// acquired=false означает, что ключ уже занят кем-то другим.
type ILocker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (release ReleaseFunc, acquired bool, err error)
}

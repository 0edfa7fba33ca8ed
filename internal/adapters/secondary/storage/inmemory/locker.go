package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/admin/astromood/chart-api/internal/ports/lock"
)

// Locker in-memory блокировки по ключу для одного инстанса
type Locker struct {
	mu    sync.Mutex
	held  map[string]lockEntry
	now   func() time.Time
	seqNo uint64
}

type lockEntry struct {
	seq       uint64
	expiresAt time.Time
}

// NewLocker создаёт новый in-memory locker
func NewLocker() *Locker {
	return &Locker{
		held: make(map[string]lockEntry),
		now:  time.Now,
	}
}

// TryLock занимает key, если он свободен или его ttl истёк
func (l *Locker) TryLock(_ context.Context, key string, ttl time.Duration) (lock.ReleaseFunc, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if entry, ok := l.held[key]; ok && now.Before(entry.expiresAt) {
		return nil, false, nil
	}

	l.seqNo++
	seq := l.seqNo
	l.held[key] = lockEntry{seq: seq, expiresAt: now.Add(ttl)}

	release := func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if entry, ok := l.held[key]; ok && entry.seq == seq {
			delete(l.held, key)
		}
		return nil
	}

	return release, true, nil
}

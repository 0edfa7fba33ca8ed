package inmemory

import (
	"context"
	"testing"
	"time"

	"github.com/admin/astromood/chart-api/internal/domain"
	"github.com/admin/astromood/chart-api/internal/ports/cache"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocker_TryLock(t *testing.T) {
	ctx := context.Background()
	l := NewLocker()

	release, ok, err := l.TryLock(ctx, "user-1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = l.TryLock(ctx, "user-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second caller must not get the lock")

	_, ok, _ = l.TryLock(ctx, "user-2", time.Minute)
	assert.True(t, ok, "locks are per key")

	require.NoError(t, release(ctx))
	_, ok, _ = l.TryLock(ctx, "user-1", time.Minute)
	assert.True(t, ok)
}

func TestLocker_ExpiredLockCanBeTaken(t *testing.T) {
	ctx := context.Background()
	l := NewLocker()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	staleRelease, ok, _ := l.TryLock(ctx, "user-1", time.Second)
	require.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok, _ = l.TryLock(ctx, "user-1", time.Minute)
	require.True(t, ok)

	// старый владелец не должен снять чужую блокировку
	require.NoError(t, staleRelease(ctx))
	_, ok, _ = l.TryLock(ctx, "user-1", time.Minute)
	assert.False(t, ok)
}

func TestCache_TTL(t *testing.T) {
	ctx := context.Background()
	c := NewCache()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", "v", time.Hour))
	v, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	now = now.Add(time.Hour)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	exists, _ := c.Exists(ctx, "missing")
	assert.False(t, exists)
}

func TestGenerationRepo_VersionedTransitions(t *testing.T) {
	ctx := context.Background()
	repo := NewGenerationRepo()
	url := "https://cdn/x.svg"

	first, err := repo.Begin(ctx, "user-1", uuid.New())
	require.NoError(t, err)
	second, err := repo.Begin(ctx, "user-1", uuid.New())
	require.NoError(t, err)
	assert.Equal(t, first.Version+1, second.Version)

	first.ChartURL = &url
	assert.ErrorIs(t, repo.MarkReady(ctx, first), domain.ErrGenerationSuperseded)

	second.ChartURL = &url
	require.NoError(t, repo.MarkReady(ctx, second))

	stored, err := repo.GetByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.GenerationStatusReady, stored.Status)
	assert.Equal(t, url, *stored.ChartURL)

	assert.ErrorIs(t, repo.MarkFailed(ctx, second), domain.ErrGenerationSuperseded, "ready attempt cannot fail")
}

func TestGenerationRepo_FailStalePending(t *testing.T) {
	ctx := context.Background()
	repo := NewGenerationRepo()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	_, err := repo.Begin(ctx, "old", uuid.New())
	require.NoError(t, err)

	now = now.Add(20 * time.Minute)
	_, err = repo.Begin(ctx, "fresh", uuid.New())
	require.NoError(t, err)

	n, err := repo.FailStalePending(ctx, now.Add(-15*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	old, _ := repo.GetByUserID(ctx, "old")
	assert.Equal(t, domain.GenerationStatusFailed, old.Status)
	assert.Equal(t, domain.StepTimeout.String(), *old.FailedStep)

	require.NoError(t, repo.DeleteByUserID(ctx, "old"))
	_, err = repo.GetByUserID(ctx, "old")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

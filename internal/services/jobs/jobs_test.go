package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/admin/astromood/chart-api/internal/adapters/secondary/storage/inmemory"
	"github.com/admin/astromood/chart-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type scriptedJob struct {
	mu    sync.Mutex
	errs  []error
	calls int
}

func (j *scriptedJob) Name() string { return "scripted" }
func (j *scriptedJob) NextRun(now time.Time) time.Time { return now.Add(time.Hour) }

func (j *scriptedJob) Run(context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.calls++
	if len(j.errs) == 0 {
		return nil
	}
	err := j.errs[0]
	j.errs = j.errs[1:]
	return err
}

type recordingAlerter struct {
	mu       sync.Mutex
	messages []string
}

func (a *recordingAlerter) SendAlert(_ context.Context, message string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.messages = append(a.messages, message)
	return nil
}

func newTestScheduler(alerter *recordingAlerter) *Scheduler {
	s := NewScheduler(discardLogger(), alerter)
	s.retryDelays = []time.Duration{0, 0, 0}
	return s
}

func TestScheduler_RetrySucceeds(t *testing.T) {
	alerter := &recordingAlerter{}
	s := newTestScheduler(alerter)
	job := &scriptedJob{errs: []error{errors.New("first"), errors.New("second")}}

	attemptErrors, err := s.executeJobWithRetry(context.Background(), job)
	require.NoError(t, err)
	assert.Nil(t, attemptErrors)
	assert.Equal(t, 3, job.calls)
}

func TestScheduler_RetriesExhausted(t *testing.T) {
	alerter := &recordingAlerter{}
	s := newTestScheduler(alerter)
	boom := errors.New("boom")
	job := &scriptedJob{errs: []error{boom, boom, boom, boom}}

	attemptErrors, err := s.executeJobWithRetry(context.Background(), job)
	require.Error(t, err)
	assert.Len(t, attemptErrors, 4)
	assert.Equal(t, 4, job.calls)

	s.sendAlert(context.Background(), job.Name(), attemptErrors)
	require.Len(t, alerter.messages, 1)
	assert.Contains(t, alerter.messages[0], "Джоба: scripted")
	assert.Contains(t, alerter.messages[0], "Попытка 4: boom")
}

func TestScheduler_RetryStopsOnCancel(t *testing.T) {
	s := NewScheduler(discardLogger(), nil)
	job := &scriptedJob{errs: []error{errors.New("boom")}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attemptErrors, err := s.executeJobWithRetry(ctx, job)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, attemptErrors, 1)
	assert.Equal(t, 1, job.calls)
}

func TestScheduler_StartReturnsOnCancel(t *testing.T) {
	s := NewScheduler(discardLogger(), nil)
	s.Register(&scriptedJob{})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start(ctx) }()

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestStaleGenerationReaper(t *testing.T) {
	ctx := context.Background()
	repo := inmemory.NewGenerationRepo()

	_, err := repo.Begin(ctx, "user-1", uuid.New())
	require.NoError(t, err)

	job := NewStaleGenerationReaper(repo, discardLogger())
	job.now = func() time.Time { return time.Now().Add(time.Hour) }
	require.NoError(t, job.Run(ctx))

	gen, err := repo.GetByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.GenerationStatusFailed, gen.Status)
	require.NotNil(t, gen.FailedStep)
	assert.Equal(t, domain.StepTimeout.String(), *gen.FailedStep)

	next := job.NextRun(time.Date(2025, 1, 1, 10, 13, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 1, 1, 10, 20, 0, 0, time.UTC), next)
}

type prefetcher struct{ calls int }

func (p *prefetcher) PrefetchDaily(context.Context) error {
	p.calls++
	return nil
}

func TestHoroscopePrefetch(t *testing.T) {
	p := &prefetcher{}
	job := NewHoroscopePrefetch(p, discardLogger())

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, p.calls)

	before := time.Date(2025, 3, 10, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 5, 0, 0, time.UTC), job.NextRun(before))

	after := time.Date(2025, 3, 10, 0, 5, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 11, 0, 5, 0, 0, time.UTC), job.NextRun(after))
}

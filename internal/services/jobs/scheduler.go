package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/admin/astromood/chart-api/internal/ports/jobs"
	"github.com/admin/astromood/chart-api/internal/ports/service"
)

// defaultRetryDelays now + 1m + 10m + 30m
var defaultRetryDelays = []time.Duration{
	1 * time.Minute,
	10 * time.Minute,
	30 * time.Minute,
}

// Scheduler управляет запуском периодических джоб
type Scheduler struct {
	jobs           []jobs.Job
	alerterService service.IAlerterService
	log            *slog.Logger

	retryDelays []time.Duration
	now         func() time.Time
}

// NewScheduler создаёт новый планировщик джоб
func NewScheduler(log *slog.Logger, alerterService service.IAlerterService) *Scheduler {
	return &Scheduler{
		jobs:           make([]jobs.Job, 0),
		alerterService: alerterService,
		log:            log,
		retryDelays:    defaultRetryDelays,
		now:            time.Now,
	}
}

// Register регистрирует джобу в планировщике
func (s *Scheduler) Register(job jobs.Job) {
	s.jobs = append(s.jobs, job)
	s.log.Debug("job registered", "job_name", job.Name(), "total_jobs", len(s.jobs))
}

// Start запускает все зарегистрированные джобы и ждёт отмены ctx
func (s *Scheduler) Start(ctx context.Context) error {
	if len(s.jobs) == 0 {
		s.log.Warn("no jobs registered, scheduler not started")
		return nil
	}

	s.log.Info("starting job scheduler", "jobs_count", len(s.jobs))

	done := make(chan struct{}, len(s.jobs))
	for _, job := range s.jobs {
		go func() {
			defer func() { done <- struct{}{} }()
			s.runJob(ctx, job)
		}()
	}

	for range s.jobs {
		<-done
	}
	s.log.Info("job scheduler stopped")
	return nil
}

// runJob запускает отдельную джобу в цикле до отмены ctx
func (s *Scheduler) runJob(ctx context.Context, job jobs.Job) {
	jobName := job.Name()
	for {
		now := s.now()
		timer := time.NewTimer(job.NextRun(now).Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("job stopped by context", "job_name", jobName)
			return
		case <-timer.C:
			attemptErrors, err := s.executeJobWithRetry(ctx, job)
			if err != nil {
				s.log.Error("job failed after all retries",
					"job_name", jobName,
					"error", err,
					"attempts", len(attemptErrors),
				)
				s.sendAlert(ctx, jobName, attemptErrors)
			} else {
				s.log.Info("job executed successfully", "job_name", jobName)
			}
		}
	}
}

// jobAttemptError ошибка конкретной попытки выполнения джобы
type jobAttemptError struct {
	attempt int
	err     error
}

// executeJobWithRetry выполняет джобу, при ошибке повторяет через retryDelays.
// Возвращает ошибки всех попыток и финальную ошибку.
func (s *Scheduler) executeJobWithRetry(ctx context.Context, job jobs.Job) ([]jobAttemptError, error) {
	jobName := job.Name()
	var attemptErrors []jobAttemptError

	for attempt := 1; attempt <= len(s.retryDelays)+1; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return attemptErrors, ctx.Err()
			case <-time.After(s.retryDelays[attempt-2]):
			}
		}

		err := job.Run(ctx)
		if err == nil {
			return nil, nil
		}

		attemptErrors = append(attemptErrors, jobAttemptError{attempt: attempt, err: err})
		s.log.Warn("job execution failed",
			"job_name", jobName,
			"attempt", attempt,
			"retries_remaining", len(s.retryDelays)+1-attempt,
			"error", err,
		)
	}

	return attemptErrors, fmt.Errorf("all retry attempts failed (total attempts: %d)", len(attemptErrors))
}

// sendAlert алертит на финальную ошибку после ретраев
func (s *Scheduler) sendAlert(ctx context.Context, jobName string, attemptErrors []jobAttemptError) {
	if s.alerterService == nil {
		return
	}

	var errorLines []string
	for _, attemptErr := range attemptErrors {
		errorLines = append(errorLines, fmt.Sprintf("Попытка %d: %s", attemptErr.attempt, attemptErr.err.Error()))
	}

	var message strings.Builder
	message.WriteString("⚠️ Финальная ошибка планировщика, ретраи исчерпаны\n\n")
	message.WriteString(fmt.Sprintf("Джоба: %s\n\n", jobName))
	message.WriteString("Ошибки попыток:\n")
	message.WriteString(strings.Join(errorLines, "\n"))

	if alertErr := s.alerterService.SendAlert(context.WithoutCancel(ctx), message.String()); alertErr != nil {
		s.log.Warn("failed to send job failure alert",
			"job_name", jobName,
			"error", alertErr,
		)
	}
}
